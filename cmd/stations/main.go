// Command stations lists the station ids available in a bundled CSV
// data directory and dumps a station's resolved constituent set, for
// inspecting the corpus offline without starting the HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tidewatch/tidecore/internal/station"
	"github.com/tidewatch/tidecore/internal/station/csv"
)

func main() {
	dataDir := flag.String("data-dir", "./testdata/stations", "CSV station corpus directory")
	stationID := flag.String("station", "", "Dump the resolved record for this station id")
	flag.Parse()

	store, err := csv.NewStore(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load station corpus from %s: %v\n", *dataDir, err)
		os.Exit(1)
	}

	if *stationID == "" {
		ids := store.ListStations()
		fmt.Printf("%d station(s) in %s:\n", len(ids), *dataDir)
		for _, id := range ids {
			kind, err := store.ResolveKind(id)
			if err != nil {
				fmt.Printf("  %s (error: %v)\n", id, err)
				continue
			}
			fmt.Printf("  %s [%s]\n", id, kind)
		}
		return
	}

	st, err := store.Constants(*stationID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve station %s: %v\n", *stationID, err)
		os.Exit(1)
	}

	dumpStation(st)
}

func dumpStation(st station.Station) {
	fmt.Printf("station %s (%s)\n", st.ID, st.Name)
	fmt.Printf("  kind: %s\n", st.Kind)
	fmt.Printf("  datum (Z0): %.4f\n", st.Datum)

	if st.Kind == station.Subordinate && st.Offset != nil {
		fmt.Printf("  reference: %s\n", st.Offset.ReferenceStationID)
		fmt.Printf("  high offset: %.1f min, factor %.4f\n", st.Offset.HighTimeOffsetMin, st.Offset.HighHeightFactor)
		fmt.Printf("  low offset:  %.1f min, factor %.4f\n", st.Offset.LowTimeOffsetMin, st.Offset.LowHeightFactor)
		return
	}

	fmt.Printf("  %d constituent(s):\n", len(st.Amplitudes))
	for _, a := range st.Amplitudes {
		fmt.Printf("    %-8s amplitude=%8.4f phase=%7.2f\n", a.Name, a.Amplitude, a.PhaseDeg)
	}
}
