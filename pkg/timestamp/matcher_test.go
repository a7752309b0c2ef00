package timestamp

import (
	"testing"
	"time"
)

func TestDetect_BuiltinFormats(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{
			name: "datetime with comma millis and zone",
			line: "2023-07-14 08:00:01,123 Z INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 123_000_000, time.UTC),
		},
		{
			name: "datetime with comma millis",
			line: "2023-07-14 08:00:01,123 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 123_000_000, time.Local),
		},
		{
			name: "datetime with millis and zone",
			line: "2023-07-14 08:00:01.123-0500 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 123_000_000, time.FixedZone("", -5*3600)),
		},
		{
			name: "datetime with millis",
			line: "2023-07-14 08:00:01.123 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 123_000_000, time.Local),
		},
		{
			name: "datetime with zone",
			line: "2023-07-14 08:00:01+0200 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "datetime",
			line: "2023-07-14 08:00:01 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 0, time.Local),
		},
		{
			name: "ISO datetime with millis and zone",
			line: "2023-07-14T08:00:01.123Z INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 123_000_000, time.UTC),
		},
		{
			name: "ISO datetime with millis",
			line: "2023-07-14T08:00:01.123 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 123_000_000, time.Local),
		},
		{
			name: "ISO datetime",
			line: "2023-07-14T08:00:01 INFO started",
			want: time.Date(2023, 7, 14, 8, 0, 1, 0, time.Local),
		},
		{
			name: "Python http.server access log",
			line: `::1 - - [22/Sep/2023 21:58:40] "GET /log1.txt HTTP/1.1" 200 -`,
			want: time.Date(2023, 9, 22, 21, 58, 40, 0, time.Local),
		},
		{
			name: "HTTP server access log",
			line: `10.0.0.1 - - [16/Sep/2023:19:05:06 +0000] "GET /search HTTP/1.1" 200 1027`,
			want: time.Date(2023, 9, 16, 19, 5, 6, 0, time.UTC),
		},
		{
			name: "epoch float seconds",
			line: "1694561169.550987 scheduler tick",
			want: time.Unix(1694561169, 550_987_000),
		},
		{
			name: "epoch milliseconds",
			line: "1694561169550 scheduler tick",
			want: time.UnixMilli(1694561169550),
		},
		{
			name: "epoch seconds",
			line: "1694561169 scheduler tick",
			want: time.Unix(1694561169, 0),
		},
		{
			name: "Apache error log",
			line: "[Fri Dec 01 00:00:25.933177 2023] [core:info] AH00094: Command line",
			want: time.Date(2023, 12, 1, 0, 0, 25, 933_177_000, time.Local),
		},
	}

	registry := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := registry.Detect("test.log", tt.line)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if m.Name != tt.name {
				t.Fatalf("Detect() selected %q, want %q", m.Name, tt.name)
			}

			got, err := m.Parse(m.Pattern.FindStringSubmatch(tt.line)[m.TSGroup])
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_SyslogPadding(t *testing.T) {
	registry := NewRegistry()
	for _, line := range []string{
		"Jun 14 15:16:01 combo sshd[19939]: authentication failure",
		"Jan  5 09:30:00 combo cron[221]: job started",
	} {
		m, err := registry.Detect("syslog", line)
		if err != nil {
			t.Fatalf("Detect(%q) error = %v", line, err)
		}
		if m.Name != "syslog (BSD)" {
			t.Errorf("Detect(%q) selected %q, want syslog (BSD)", line, m.Name)
		}
		if !m.NeedsYear {
			t.Errorf("syslog matcher should need an external year")
		}
	}
}

func TestDetect_MoreSpecificFormatWins(t *testing.T) {
	// A line with millis must not be claimed by the bare datetime matcher.
	registry := NewRegistry()
	m, err := registry.Detect("app.log", "2023-07-14 08:00:01.123 message")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if m.Name != "datetime with millis" {
		t.Errorf("Detect() selected %q, want datetime with millis", m.Name)
	}
}

func TestDetect_NoMatch(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Detect("weird.log", "completely unstructured text")
	if err == nil {
		t.Fatal("Detect() expected an error")
	}
	nfe, ok := err.(*NoFormatError)
	if !ok {
		t.Fatalf("Detect() error type = %T, want *NoFormatError", err)
	}
	if nfe.Source != "weird.log" {
		t.Errorf("NoFormatError.Source = %q, want weird.log", nfe.Source)
	}
}

func TestParseEpochFloat_Precision(t *testing.T) {
	got, err := parseEpochFloat("1694561169.5")
	if err != nil {
		t.Fatalf("parseEpochFloat() error = %v", err)
	}
	want := time.Unix(1694561169, 500_000_000)
	if !got.Equal(want) {
		t.Errorf("parseEpochFloat() = %v, want %v", got, want)
	}
}
