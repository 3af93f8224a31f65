package malloc

import "testing"

func TestFreelistLIFO(t *testing.T) {
	arena, err := newarena(8, 64, heapalloc, heaprelease)
	if err != nil {
		t.Fatal(err)
	}
	fl := newfreelist(arena)
	for i := int64(7); i >= 0; i-- {
		fl.push(i)
	}
	if fl.nfree != 8 {
		t.Errorf("expected %v, got %v", 8, fl.nfree)
	}
	for i := int64(0); i < 4; i++ {
		if x := fl.pop(); x != i {
			t.Errorf("expected %v, got %v", i, x)
		}
	}
	fl.push(2)
	fl.push(0)
	if x := fl.pop(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	} else if x = fl.pop(); x != 2 {
		t.Errorf("expected %v, got %v", 2, x)
	} else if x = fl.pop(); x != 4 {
		t.Errorf("expected %v, got %v", 4, x)
	} else if fl.nfree != 3 {
		t.Errorf("expected %v, got %v", 3, fl.nfree)
	}
}

func TestFreelistDoublefree(t *testing.T) {
	arena, err := newarena(2, 64, heapalloc, heaprelease)
	if err != nil {
		t.Fatal(err)
	}
	fl := newfreelist(arena)
	fl.push(0)
	fl.push(1)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic")
		}
	}()
	fl.push(1)
}

func TestFreelistExhausted(t *testing.T) {
	arena, err := newarena(1, 64, heapalloc, heaprelease)
	if err != nil {
		t.Fatal(err)
	}
	fl := newfreelist(arena)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic")
		}
	}()
	fl.pop()
}
