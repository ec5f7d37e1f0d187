package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// PrintCacheStatus prints snapshot cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintSampleStatus prints sample store status information.
func PrintSampleStatus(w io.Writer, status schema.SampleStatus) {
	_, _ = fmt.Fprintf(w, "Sample Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	_, _ = fmt.Fprintf(w, "Total Samples: %d\n", status.TotalSamples)
	if status.TotalSamples > 0 {
		_, _ = fmt.Fprintf(w, "First Sample: %s\n", status.FirstSample.Format(contract.DateFormat))
		_, _ = fmt.Fprintf(w, "Last Sample: %s\n", status.LastSample.Format(contract.DateFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}
