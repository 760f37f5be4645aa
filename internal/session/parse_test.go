package session

import (
	"testing"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/video"
)

func TestFixPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"C:\Users\me\clip.mp4"`, "C:/Users/me/clip.mp4"},
		{`/tmp/clip.mp4`, "/tmp/clip.mp4"},
		{`"/tmp/with space.mp4"`, "/tmp/with space.mp4"},
		{`out\frames`, "out/frames"},
		{``, ""},
	}

	for _, tt := range tests {
		if got := FixPath(tt.input); got != tt.want {
			t.Errorf("FixPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseOptional(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Optional
		wantErr bool
	}{
		{"empty", "", Optional{}, false},
		{"number", "42", Some(42), false},
		{"padded", " 7 ", Some(7), false},
		{"negative", "-3", Some(-3), false},
		{"blank is not empty", "   ", Optional{}, true},
		{"garbage", "abc", Optional{}, true},
		{"float", "1.5", Optional{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptional(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOptional(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCropInput_ResolveFullFrame(t *testing.T) {
	info := video.Info{Width: 1920, Height: 1080, FrameCount: 10}

	got := CropInput{}.Resolve(info)
	want := extract.Crop{CenterX: 960, CenterY: 540, Width: 1920, Height: 1080, FullFrame: true}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestCropInput_ResolvePerFieldDefaults(t *testing.T) {
	info := video.Info{Width: 1920, Height: 1080, FrameCount: 10}

	got := CropInput{Width: Some(200)}.Resolve(info)
	want := extract.Crop{CenterX: 960, CenterY: 540, Width: 200, Height: 1080}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}

	got = CropInput{CenterX: Some(10), CenterY: Some(20), Width: Some(30), Height: Some(40)}.Resolve(info)
	want = extract.Crop{CenterX: 10, CenterY: 20, Width: 30, Height: 40}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestCropInput_ExplicitDefaultsStillCrop(t *testing.T) {
	// Typing the default values is not the same as skipping every field.
	info := video.Info{Width: 100, Height: 50}
	got := CropInput{CenterX: Some(50), CenterY: Some(25), Width: Some(100), Height: Some(50)}.Resolve(info)
	if got.FullFrame {
		t.Error("explicit fields should not select full-frame mode")
	}
}
