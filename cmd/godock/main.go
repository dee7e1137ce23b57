/*
 * main.go, part of godock.
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

//godock docks a flexible ligand into a rigid receptor.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	dock "github.com/rmera/godock"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:          "godock",
		Short:        "Monte Carlo + BFGS docking of a flexible ligand into a rigid receptor",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file; flags override it")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "chatty logging")
	root.AddCommand(dockCmd(), profileCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

//newLogger builds the process logger. Everything goes to stderr so the
//output file is the only thing on stdout-adjacent paths.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

//loadConfig merges the command's flags with the optional config file.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func dockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dock",
		Short: "search for low-energy poses of a ligand inside a box",
		RunE:  runDock,
	}
	f := cmd.Flags()
	f.String("receptor", "", "receptor PDBQT file (.gz accepted)")
	f.String("ligand", "", "ligand PDBQT file (.gz accepted)")
	f.String("out", "poses.pdbqt", "output file for the ranked poses")
	f.Float64("center-x", 0, "box center, x")
	f.Float64("center-y", 0, "box center, y")
	f.Float64("center-z", 0, "box center, z")
	f.Float64("size-x", 22.5, "box size, x")
	f.Float64("size-y", 22.5, "box size, y")
	f.Float64("size-z", 22.5, "box size, z")
	f.Float64("granularity", dock.DefaultGranularity, "partition cell size")
	f.Int("tasks", dock.DefaultTasks, "number of independently seeded search tasks")
	f.Int64("seed", 1, "base random seed")
	f.Int("poses", dock.DefaultCapacity, "maximum number of poses to keep")
	return cmd
}

func runDock(cmd *cobra.Command, args []string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()
	receptorPath := v.GetString("receptor")
	ligandPath := v.GetString("ligand")
	if receptorPath == "" || ligandPath == "" {
		return fmt.Errorf("both --receptor and --ligand are required")
	}
	center := r3.Vec{X: v.GetFloat64("center-x"), Y: v.GetFloat64("center-y"), Z: v.GetFloat64("center-z")}
	size := r3.Vec{X: v.GetFloat64("size-x"), Y: v.GetFloat64("size-y"), Z: v.GetFloat64("size-z")}
	box, err := dock.NewBox(center, size, v.GetFloat64("granularity"))
	if err != nil {
		return err
	}
	lig, err := dock.ReadLigand(ligandPath)
	if err != nil {
		return err
	}
	log.Info("ligand read", zap.String("file", ligandPath),
		zap.Int("heavy_atoms", lig.NumHeavyAtoms()),
		zap.Int("active_torsions", lig.NumActiveTorsions()))
	rec, err := dock.ReadReceptor(receptorPath, box)
	if err != nil {
		return err
	}
	log.Info("receptor read", zap.String("file", receptorPath),
		zap.Int("atoms", len(rec.Atoms)))
	sf := dock.NewScoringFunction()
	if err := sf.PrecalculateAll(); err != nil {
		return err
	}
	rs, err := dock.Search(lig.Evaluator(sf, rec), box, dock.SearchOptions{
		Tasks:    v.GetInt("tasks"),
		Seed:     v.GetInt64("seed"),
		Capacity: v.GetInt("poses"),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		return fmt.Errorf("no poses found")
	}
	out := v.GetString("out")
	if err := dock.WriteResults(out, lig, rs); err != nil {
		return err
	}
	log.Info("poses written", zap.String("file", out), zap.Int("poses", rs.Len()),
		zap.Float64("best_energy", rs.Best().E))
	return nil
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "plot the interaction profile of a scoring type pair",
		RunE:  runProfile,
	}
	f := cmd.Flags()
	f.Int("t1", dock.XSCarbonHydrophobic, "first scoring type")
	f.Int("t2", dock.XSCarbonHydrophobic, "second scoring type")
	f.String("out", "profile.png", "output image")
	f.String("title", "Interaction profile", "plot title")
	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sf := dock.NewScoringFunction()
	if err := sf.PrecalculateAll(); err != nil {
		return err
	}
	return dock.ScoreProfilePlot(sf, v.GetInt("t1"), v.GetInt("t2"),
		v.GetString("title"), v.GetString("out"))
}
