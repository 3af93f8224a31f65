package malloc

import "testing"

func TestDefaultsettings(t *testing.T) {
	setts := Defaultsettings()
	if x := setts.Int64("chunksize"); x != DefaultChunksize {
		t.Errorf("expected %v, got %v", DefaultChunksize, x)
	} else if x := setts.Int64("maxobject"); x != DefaultMaxobject {
		t.Errorf("expected %v, got %v", DefaultMaxobject, x)
	} else if x := setts.Int64("maxrequest"); x != 128 {
		t.Errorf("expected %v, got %v", 128, x)
	} else if x := setts.Int64("dispatch.tick"); x != 200 {
		t.Errorf("expected %v, got %v", 200, x)
	} else if x := setts.Bool("dispatch.batch"); x != true {
		t.Errorf("expected %v, got %v", true, x)
	}
	if x := setts.Int64("chunks"); x < 1 || x > Defaultmaxchunks {
		t.Errorf("unexpected chunks %v", x)
	}

	svc := NewService("default", nil)
	if err := svc.validatesettings(); err != nil {
		t.Errorf("unexpected %v", err)
	}
}

func TestDefaultchunks(t *testing.T) {
	if x := Defaultchunks(1 << 40); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
	if x := Defaultchunks(8); x < 1 || x > Defaultmaxchunks {
		t.Errorf("unexpected %v", x)
	}
}
