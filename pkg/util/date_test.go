package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestAlignTo(t *testing.T) {
    at := time.Date(2024, 10, 10, 10, 13, 47, 0, time.UTC)
    if got := AlignTo(at, "5m"); got.Minute() != 10 || got.Second() != 0 {
        t.Fatalf("5m align: got %v", got)
    }
    if got := AlignTo(at, "15m"); got.Minute() != 0 {
        t.Fatalf("15m align: got %v", got)
    }
    if got := AlignTo(at, "60m"); got.Minute() != 0 || got.Hour() != 10 {
        t.Fatalf("60m align: got %v", got)
    }
    if got := AlignTo(at, "1m"); got.Second() != 0 || got.Minute() != 13 {
        t.Fatalf("minute align: got %v", got)
    }
}

func TestParseIntDefault(t *testing.T) {
    if got := ParseIntDefault("8080", 1); got != 8080 {
        t.Fatalf("expected 8080, got %d", got)
    }
    if got := ParseIntDefault("", 9); got != 9 {
        t.Fatalf("expected default 9, got %d", got)
    }
    if got := ParseIntDefault("nope", 9); got != 9 {
        t.Fatalf("expected default 9, got %d", got)
    }
}