// Command tidecheck prints the tide summary for one station and day.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wetide/wetide/pkg/moon"
	"github.com/wetide/wetide/pkg/noaa"
	"github.com/wetide/wetide/pkg/stations"
	"github.com/wetide/wetide/pkg/tides"
)

func main() {
	station := flag.String("station", "9413745", "NOAA station id")
	date := flag.String("date", "", "date to check, YYYY-MM-DD (default today)")
	flag.Parse()

	day := time.Now().UTC()
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad date %q: %v\n", *date, err)
			os.Exit(1)
		}
		day = parsed
	}

	if st, ok := stations.ByID(*station); ok {
		fmt.Printf("%s (%s)\n", st.Name, st.ID)
	} else {
		fmt.Printf("station %s\n", *station)
	}

	feed := tides.NewFeed(noaa.NewClient())
	result := feed.GetTideSeries(context.Background(), *station, day)

	fmt.Printf("%s: %s\n", day.Format("Mon Jan 2 2006"), result.Label)
	if result.Min != nil && result.Max != nil {
		fmt.Printf("low  %.2fm at %s\n", float64(result.Min.Height), result.Min.T().Format("15:04"))
		fmt.Printf("high %.2fm at %s\n", float64(result.Max.Height), result.Max.T().Format("15:04"))
	}
	if n := len(result.OptimalWindow); n > 0 {
		first := result.OptimalWindow[0].T()
		last := result.OptimalWindow[n-1].T()
		fmt.Printf("surfable window %s to %s\n", first.Format("15:04"), last.Format("15:04"))
	} else {
		fmt.Println("no surfable window")
	}

	phase := moon.PhaseAt(day)
	fmt.Printf("moon: %s, %s\n", phase.Name, phase.Description)
}
