package utils

import (
	"testing"
	"time"
)

func TestTimeHelpers(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 02:00 on 1 March in India is still February in UTC
	local := time.Date(2026, 3, 1, 2, 0, 0, 0, ist)

	if got := StartOfMonthUTC(local); !got.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("StartOfMonthUTC = %s", got)
	}
	if got := StartOfDayUTC(local); !got.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("StartOfDayUTC = %s", got)
	}
	if FormatUnixSeconds(0) != "" {
		t.Fatal("zero should render empty")
	}
	if got := FormatUnixSeconds(local.Unix()); got != "2026-02-28T20:30:00Z" {
		t.Fatalf("FormatUnixSeconds = %s", got)
	}
}
