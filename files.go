/*
 * files.go, part of godock.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dock

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/spatial/r3"
)

//gzFile closes the gzip reader and the file under it.
type gzFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzFile) Close() error {
	err := g.Reader.Close()
	if err2 := g.f.Close(); err == nil {
		err = err2
	}
	return err
}

//openDecompressed opens a file for reading, transparently decompressing
//it when the name ends in ".gz".
func openDecompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &gzFile{Reader: gz, f: f}, nil
}

//parseAtomRecord reads one fixed-column ATOM/HETATM line of a PDBQT
//file. Records with an unrecognized atom type are skipped, not errors:
//it returns (nil, nil) for them. Malformed numeric fields are hard
//errors carrying the line number.
func parseAtomRecord(line string, lineno int) (*Atom, error) {
	if len(line) < 78 {
		return nil, fmt.Errorf("line %d: atom record too short (%d columns)", lineno, len(line))
	}
	//the AutoDock type sits in the last two columns of the record
	end := 79
	if len(line) < 79 {
		end = 78
	}
	ad, known := adTypeNames[strings.TrimSpace(line[77:end])]
	if !known {
		return nil, nil
	}
	serial, err := strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return nil, fmt.Errorf("line %d: bad atom serial: %w", lineno, err)
	}
	var c [3]float64
	for i, span := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		c[i], err = strconv.ParseFloat(strings.TrimSpace(line[span[0]:span[1]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad coordinate: %w", lineno, err)
		}
	}
	return &Atom{
		Serial: serial,
		Name:   strings.TrimSpace(line[12:16]),
		Coord:  r3.Vec{X: c[0], Y: c[1], Z: c[2]},
		AD:     ad,
		XS:     adToXS[ad],
	}, nil
}

//writeAtomRecord writes one atom in the fixed-column format the parsers
//read back.
func writeAtomRecord(out io.Writer, a *Atom, coord r3.Vec) error {
	_, err := fmt.Fprintf(out, "ATOM  %5d %-4s LIG A   1    %8.3f%8.3f%8.3f%6.2f%6.2f    %6.3f %-2s\n",
		a.Serial, a.Name, coord.X, coord.Y, coord.Z, 1.0, 0.0, 0.0, adStrings[a.AD])
	return err
}

//WriteResults writes the poses of rs, best first, as a multi-MODEL
//PDBQT-like file. The atom records reuse the serials and names of lig;
//only the coordinates differ between models.
func WriteResults(path string, lig *Ligand, rs *ResultSet) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	for m, r := range rs.Results() {
		fmt.Fprintf(out, "MODEL     %4d\n", m+1)
		fmt.Fprintf(out, "REMARK      NORMALIZED FREE ENERGY PREDICTED BY GODOCK:%8.2f KCAL/MOL\n", r.ENorm)
		fmt.Fprintf(out, "REMARK           TOTAL FREE ENERGY PREDICTED BY GODOCK:%8.2f KCAL/MOL\n", r.E)
		fmt.Fprintf(out, "REMARK INTER-MOLECULAR FREE ENERGY PREDICTED BY GODOCK:%8.2f KCAL/MOL\n", r.F)
		for i := range lig.HeavyAtoms {
			if err := writeAtomRecord(out, &lig.HeavyAtoms[i], r.Heavy[i]); err != nil {
				return err
			}
		}
		for i := range lig.Hydrogens {
			if err := writeAtomRecord(out, &lig.Hydrogens[i], r.Hydrogens[i]); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, "TER")
		fmt.Fprintln(out, "ENDMDL")
	}
	return nil
}
