/*
 * doc.go, part of godock.
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

/*Package dock docks a flexible small molecule into a rigid receptor.

The search looks for low free-energy poses of the ligand inside a
user-given box. Each independent task runs a Monte Carlo global search
where every step is refined with a BFGS quasi-Newton local optimization.
Energies come from an empirical scoring function that is precalculated,
for every pair of atom types, on a grid of squared interatomic
distances, so evaluating one atom pair during the search is a table
lookup. Receptor atoms are indexed in a uniform spatial partition of
the box, so only the atoms that can actually interact with a ligand
atom are visited.


	**Capabilities**

    Reads receptors and ligands in PDBQT format, plain or gzipped.

    Precalculates the scoring function for all atom-type pairs,
	in parallel.

    Runs any number of independently-seeded search tasks on a worker
	pool, and merges their poses into one ranked, RMSD-clustered set.

    Writes the ranked poses as a multi-MODEL PDBQT-like file.

    Plots the interaction profile of any atom-type pair.

The numerical core (the Monte Carlo driver and the BFGS optimizer) is
written against a small Evaluator interface, so it can be exercised,
and tested, with synthetic energy functions as well as with real
ligands.

Results are deterministic for a fixed seed and task count.
*/
package dock
