package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		"debug":   {level: "debug", want: zapcore.DebugLevel},
		"info":    {level: "info", want: zapcore.InfoLevel},
		"upper":   {level: "WARN", want: zapcore.WarnLevel},
		"unknown": {level: "loud", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			log, err := New(tc.level)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected an error for level %q", tc.level)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := log.Level(); got != tc.want {
				t.Errorf("level incorrect, wanted: %v, got: %v", tc.want, got)
			}
		})
	}
}
