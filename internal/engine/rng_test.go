package engine

import (
	"testing"
)

func TestFloatsInUnitInterval(t *testing.T) {
	for _, cursor := range []uint64{0, 7, 31, 64} {
		floats := Floats("range_server", "range_client", 3, cursor, 40)
		if len(floats) != 40 {
			t.Fatalf("cursor %d: got %d floats, want 40", cursor, len(floats))
		}
		for i, f := range floats {
			if f < 0 || f >= 1 {
				t.Errorf("cursor %d float %d = %f, outside [0, 1)", cursor, i, f)
			}
		}
	}
}

func TestFloatsDependOnEveryInput(t *testing.T) {
	base := Floats("server", "client", 42, 0, 4)
	variants := map[string][]float64{
		"server": Floats("server2", "client", 42, 0, 4),
		"client": Floats("server", "client2", 42, 0, 4),
		"nonce":  Floats("server", "client", 43, 0, 4),
	}
	for name, v := range variants {
		if equalFloats(base, v) {
			t.Errorf("changing the %s seed left the stream unchanged", name)
		}
	}
	if again := Floats("server", "client", 42, 0, 4); !equalFloats(base, again) {
		t.Error("same inputs produced different streams")
	}
}

func equalFloats(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return len(a) == len(b)
}

func TestBytesToFloat(t *testing.T) {
	const b = 256.0
	cases := map[[4]byte]float64{
		{0, 0, 0, 0}:      0,
		{1, 0, 0, 0}:      1 / b,
		{0, 0, 0, 1}:      1 / (b * b * b * b),
		{128, 64, 32, 16}: 128/b + 64/(b*b) + 32/(b*b*b) + 16/(b*b*b*b),
	}
	for in, want := range cases {
		if got := bytesToFloat(in); got != want {
			t.Errorf("bytesToFloat(%v) = %.15f, want %.15f", in, got, want)
		}
	}
}

func TestGoldenFloats(t *testing.T) {
	tests := []struct {
		name   string
		cursor uint64
		want   []float64
	}{
		{"start", 0, []float64{0.9670919121708721, 0.7818480387795717, 0.09741653245873749}},
		// bytes 30..33 span the first and second HMAC rounds
		{"across rounds", 30, []float64{0.46001606341451406, 0.24985719844698906}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Floats("test_server_seed", "test_client_seed", 1, tt.cursor, len(tt.want))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("float %d = %.17f, want %.17f", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStreamMatchesFloats(t *testing.T) {
	seeds := Seeds{Server: "server", Client: "client"}
	want := Floats(seeds.Server, seeds.Client, 7, 0, 12)

	s := NewStream(seeds, 7)
	for i, w := range want {
		if got := s.Float64(); got != w {
			t.Errorf("Float %d: got %f, want %f", i, got, w)
		}
	}
}

func TestStreamIntn(t *testing.T) {
	s := NewStream(Seeds{Server: "server", Client: "client"}, 1)
	for i := 0; i < 500; i++ {
		v := s.Intn(10)
		if v < 0 || v >= 10 {
			t.Fatalf("Intn(10) = %d, out of range", v)
		}
	}
}

func TestHashServerSeed(t *testing.T) {
	// echo -n "abc" | sha256sum
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashServerSeed("abc"); got != want {
		t.Errorf("HashServerSeed() = %s, want %s", got, want)
	}
	if got := HashServerSeed(""); got != "" {
		t.Errorf("Expected empty hash for empty seed, got %s", got)
	}
}
