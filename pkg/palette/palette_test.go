package palette

import "testing"

func TestParseTone(t *testing.T) {
	tests := []struct {
		in      string
		want    Tone
		wantErr bool
	}{
		{"blue", ToneBlue, false},
		{"GREEN", ToneGreen, false},
		{"#FFF3E0", ToneOrange, false},
		{"#ffebee", ToneRed, false},
		{" purple ", TonePurple, false},
		{"#123456", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTone(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToneAttributes(t *testing.T) {
	for _, tone := range Tones() {
		if !tone.Valid() {
			t.Errorf("%v should be valid", tone)
		}
		if tone.Fill() == "" || tone.Border() == "" {
			t.Errorf("%v missing colors", tone)
		}
		back, err := ParseTone(tone.Fill())
		if err != nil || back != tone {
			t.Errorf("fill %s did not round-trip to %v", tone.Fill(), tone)
		}
	}
	if Tone(0).Valid() {
		t.Error("zero tone should be invalid")
	}
}

func TestToneText(t *testing.T) {
	var tone Tone
	if err := tone.UnmarshalText([]byte("#E8F5E8")); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	b, err := tone.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}
	if string(b) != "green" {
		t.Errorf("MarshalText = %q, want green", b)
	}
	if _, err := Tone(42).MarshalText(); err == nil {
		t.Error("MarshalText of invalid tone should fail")
	}
}

func TestMarkerFor(t *testing.T) {
	tests := []struct {
		kind  NodeKind
		shape Shape
		size  float64
	}{
		{KindDecision, ShapeDiamond, 80},
		{KindStart, ShapeCircle, 70},
		{KindEnd, ShapeCircle, 70},
		{KindProcess, ShapeSquare, 75},
		{KindSpecial, ShapeSquare, 75},
	}

	for _, tt := range tests {
		m, ok := MarkerFor(tt.kind)
		if !ok {
			t.Errorf("MarkerFor(%s) not found", tt.kind)
			continue
		}
		if m.Shape != tt.shape || m.Size != tt.size {
			t.Errorf("MarkerFor(%s) = %+v, want %s/%v", tt.kind, m, tt.shape, tt.size)
		}
	}

	decision, _ := MarkerFor(KindDecision)
	start, _ := MarkerFor(KindStart)
	if decision.Size <= start.Size {
		t.Error("decision marker should be larger than start marker")
	}

	if _, err := ParseNodeKind("loop"); err == nil {
		t.Error("ParseNodeKind(loop) should fail")
	}
}
