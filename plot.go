/*
 * plot.go, part of godock.
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
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//ScoreProfilePlot draws the precalculated interaction energy of the
//scoring type pair (t1,t2) as a function of the center-to-center
//distance, and saves it to plotname (the extension picks the format,
//e.g. .png or .pdf). Handy to eyeball what the search is optimizing.
func ScoreProfilePlot(sf *ScoringFunction, t1, t2 int, title, plotname string) error {
	if t1 < 0 || t1 >= XSTypeCount || t2 < 0 || t2 >= XSTypeCount {
		return fmt.Errorf("ScoreProfilePlot: scoring type out of range")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Distance (A)"
	p.Y.Label.Text = "Energy (kcal/mol)"
	p.Add(plotter.NewGrid())
	tpi := TypePairIndex(t1, t2)
	const points = 400
	pts := make(plotter.XYs, 0, points)
	for i := 0; i < points; i++ {
		r := Cutoff * float64(i+1) / points
		e, _ := sf.Evaluate(tpi, r*r)
		//the steep repulsion wall at contact distances would flatten
		//everything else out of view
		if math.Abs(e) > 5 {
			continue
		}
		pts = append(pts, plotter.XY{X: r, Y: e})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(14*vg.Centimeter, 10*vg.Centimeter, plotname)
}
