package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone America/Argentina/Buenos_Aires", timezone: "America/Argentina/Buenos_Aires", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	utc := time.UTC

	tests := []struct {
		name   string
		value  string
		wantOK bool
		want   time.Time
	}{
		{name: "empty", value: "", wantOK: false},
		{name: "whitespace", value: "   ", wantOK: false},
		{name: "garbage", value: "next tuesday", wantOK: false},
		{name: "date only", value: "2026-10-15", wantOK: true, want: time.Date(2026, 10, 15, 0, 0, 0, 0, utc)},
		{name: "rfc3339", value: "2026-10-15T13:45:00Z", wantOK: true, want: time.Date(2026, 10, 15, 13, 45, 0, 0, utc)},
		{name: "rfc3339 with millis", value: "2026-10-15T13:45:00.123Z", wantOK: true, want: time.Date(2026, 10, 15, 13, 45, 0, 123000000, utc)},
		{name: "no offset", value: "2026-10-15T08:30:00", wantOK: true, want: time.Date(2026, 10, 15, 8, 30, 0, 0, utc)},
		{name: "space separated", value: "2026-10-15 08:30:00", wantOK: true, want: time.Date(2026, 10, 15, 8, 30, 0, 0, utc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.value, utc)
			if ok != tt.wantOK {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	a := time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC)  // Oct 14, 22:00 in UTC-3
	b := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) // Oct 14, 09:00 in UTC-3

	if !SameDay(a, b, loc) {
		t.Errorf("SameDay() = false, want true in UTC-3")
	}
	if SameDay(a, b, time.UTC) {
		t.Errorf("SameDay() = true, want false in UTC")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 10, 15, 17, 42, 9, 0, time.UTC)
	got := StartOfDay(in, time.UTC)
	want := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("") || !ValidateTimezone("Local") || !ValidateTimezone("UTC") {
		t.Error("ValidateTimezone() rejected a valid timezone")
	}
	if ValidateTimezone("Mars/Olympus_Mons") {
		t.Error("ValidateTimezone() accepted an invalid timezone")
	}
}

func TestIsDateOnly(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2026-10-15", true},
		{" 2026-10-15 ", true},
		{"2026-10-15T09:00:00Z", false},
		{"2026-10-15 09:00", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDateOnly(tt.value); got != tt.want {
			t.Errorf("IsDateOnly(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
