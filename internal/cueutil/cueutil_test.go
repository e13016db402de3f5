// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	name?:  string
	count?: int & >=0
	tags?: [...string]
}
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	got, err := DecodeMap(testSchema, "#Config", []byte(`name: "rusk"
tags: ["a", "b"]
`), "test.cue")
	if err != nil {
		t.Fatalf("DecodeMap() error = %v", err)
	}
	if got["name"] != "rusk" {
		t.Errorf("name = %v, want rusk", got["name"])
	}
	if _, ok := got["count"]; ok {
		t.Errorf("count should be absent, got %v", got["count"])
	}
}

func TestDecodeMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "wrong type", data: `count: "many"`, wantMsg: "count"},
		{name: "constraint", data: `count: -1`, wantMsg: "count"},
		{name: "unknown field", data: `colour: "red"`, wantMsg: "colour"},
		{name: "syntax", data: `name: {`, wantMsg: "test.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeMap(testSchema, "#Config", []byte(tt.data), "test.cue")
			if err == nil {
				t.Fatal("DecodeMap() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("DecodeMap() error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "test.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v, want nil", err)
	}

	err := FormatError(errors.New("some error"), "test.cue")
	if err == nil || !strings.Contains(err.Error(), "test.cue") || !strings.Contains(err.Error(), "some error") {
		t.Errorf("FormatError() = %v, want file path and message", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"name"}, want: "name"},
		{path: []string{"ui", "verbosity"}, want: "ui.verbosity"},
		{path: []string{"env_files", "0"}, want: "env_files[0]"},
		{path: []string{"0"}, want: "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f"); err != nil {
		t.Errorf("CheckFileSize(at limit) error = %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f"); err == nil {
		t.Error("CheckFileSize(over limit) expected error")
	}
}
