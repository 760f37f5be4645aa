package video

import (
	"errors"
	"slices"
	"testing"
)

func TestLookup_FFmpeg(t *testing.T) {
	opener, err := Lookup(BackendFFmpeg, Options{ProbeTimeout: DefaultProbeTimeout})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := opener.(*FFmpeg)
	if !ok {
		t.Fatalf("Lookup(ffmpeg) = %T, want *FFmpeg", opener)
	}
	if f.ProbeTimeout != DefaultProbeTimeout {
		t.Errorf("ProbeTimeout = %s, want %s", f.ProbeTimeout, DefaultProbeTimeout)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("quicktime", Options{})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}
}

func TestBackends_IncludesFFmpeg(t *testing.T) {
	if !slices.Contains(Backends(), BackendFFmpeg) {
		t.Errorf("Backends() = %v, should include %q", Backends(), BackendFFmpeg)
	}
}
