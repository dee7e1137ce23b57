package dock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreProfilePlot(t *testing.T) {
	sf := testScoringFunction(t)
	path := filepath.Join(t.TempDir(), "profile.png")
	err := ScoreProfilePlot(sf, XSNitrogenDonor, XSOxygenAcceptor, "N-O profile", path)
	require.NoError(t, err)
	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, st.Size(), int64(0))
	err = ScoreProfilePlot(sf, -1, 0, "bad", path)
	require.Error(t, err)
}
