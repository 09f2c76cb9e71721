package ndarray

import "testing"

func TestNewZeroed(t *testing.T) {
	a := New(4, 3, 2, 1)
	for i := -1; i < 5; i++ {
		for j := -1; j < 4; j++ {
			for k := -1; k < 3; k++ {
				if v := a.At(i, j, k); v != 0 {
					t.Fatalf("expected zeroed cell at (%d,%d,%d), got %f", i, j, k, v)
				}
			}
		}
	}
}

func TestSetAt(t *testing.T) {
	a := New(4, 3, 2, 1)
	a.Set(2, 1, 0, 3.5)
	if v := a.At(2, 1, 0); v != 3.5 {
		t.Errorf("expected 3.5, got %f", v)
	}
	a.Set(-1, -1, -1, 7)
	if v := a.At(-1, -1, -1); v != 7 {
		t.Errorf("expected ghost write to stick, got %f", v)
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	a := New(4, 3, 2, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-bounds access")
		}
	}()
	a.At(10, 0, 0)
}

func TestCopyPlaneX(t *testing.T) {
	src := New(4, 3, 2, 1)
	dst := New(4, 3, 2, 1)
	for j := -1; j < 4; j++ {
		for k := -1; k < 3; k++ {
			src.Set(2, j, k, float64(j*10+k))
		}
	}
	dst.CopyPlaneX(src, -1, 2)
	for j := -1; j < 4; j++ {
		for k := -1; k < 3; k++ {
			got := dst.At(-1, j, k)
			want := float64(j*10 + k)
			if got != want {
				t.Fatalf("CopyPlaneX mismatch at (j=%d,k=%d): got %f want %f", j, k, got, want)
			}
		}
	}
}

func TestAddPlaneYAccumulates(t *testing.T) {
	src := New(4, 3, 2, 1)
	dst := New(4, 3, 2, 1)
	for i := -1; i < 5; i++ {
		for k := -1; k < 3; k++ {
			src.Set(i, 0, k, 1)
			dst.Set(i, 2, k, 1)
		}
	}
	dst.AddPlaneY(src, 2, 0)
	for i := -1; i < 5; i++ {
		for k := -1; k < 3; k++ {
			if v := dst.At(i, 2, k); v != 2 {
				t.Fatalf("expected accumulated 2 at (%d,_,%d), got %f", i, k, v)
			}
		}
	}
}

func TestZeroPlaneZDrains(t *testing.T) {
	a := New(4, 3, 2, 1)
	for i := -1; i < 5; i++ {
		for j := -1; j < 4; j++ {
			a.Set(i, j, 1, 9)
		}
	}
	a.ZeroPlaneZ(1)
	for i := -1; i < 5; i++ {
		for j := -1; j < 4; j++ {
			if v := a.At(i, j, 1); v != 0 {
				t.Fatalf("expected drained plane, got %f at (%d,%d,1)", v, i, j)
			}
		}
	}
}

func TestCopyPencilZRoundTrip(t *testing.T) {
	src := New(2, 2, 5, 2)
	dst := New(2, 2, 5, 2)
	for k := -2; k < 7; k++ {
		src.Set(0, 0, k, float64(k))
	}
	dst.CopyPencilZ(src, 1, 1, 0, 0)
	for k := -2; k < 7; k++ {
		if v := dst.At(1, 1, k); v != float64(k) {
			t.Fatalf("pencil copy mismatch at k=%d: got %f", k, v)
		}
	}
}

func TestAddPencilXThenZeroPencilX(t *testing.T) {
	a := New(5, 2, 2, 1)
	b := New(5, 2, 2, 1)
	for i := -1; i < 6; i++ {
		b.Set(i, 0, 0, 2)
		a.Set(i, 1, 1, 3)
	}
	a.AddPencilX(b, 1, 1, 0, 0)
	for i := -1; i < 6; i++ {
		if v := a.At(i, 1, 1); v != 5 {
			t.Fatalf("expected 5 after add, got %f at i=%d", v, i)
		}
	}
	b.ZeroPencilX(0, 0)
	for i := -1; i < 6; i++ {
		if v := b.At(i, 0, 0); v != 0 {
			t.Fatalf("expected drained source pencil, got %f at i=%d", v, i)
		}
	}
}

func TestAxpyFullCoversGhost(t *testing.T) {
	a := New(2, 2, 2, 1)
	x := New(2, 2, 2, 1)
	for i := range x.Data {
		x.Data[i] = 1
	}
	a.AxpyFull(2, x)
	for i := range a.Data {
		if a.Data[i] != 2 {
			t.Fatalf("expected AxpyFull to touch every cell including ghost, got %f at flat index %d", a.Data[i], i)
		}
	}
}

func TestAxpyLogicalSkipsGhost(t *testing.T) {
	a := New(2, 2, 2, 1)
	x := New(2, 2, 2, 1)
	for i := range x.Data {
		x.Data[i] = 1
	}
	a.AxpyLogical(3, x)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				if v := a.At(i, j, k); v != 3 {
					t.Fatalf("expected logical cell (%d,%d,%d)=3, got %f", i, j, k, v)
				}
			}
		}
	}
	if v := a.At(-1, 0, 0); v != 0 {
		t.Fatalf("expected ghost cell untouched by AxpyLogical, got %f", v)
	}
}

func BenchmarkCopyPlaneZ(b *testing.B) {
	src := New(64, 64, 64, 2)
	dst := New(64, 64, 64, 2)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		dst.CopyPlaneZ(src, 0, 0)
	}
}

func BenchmarkAddPlaneY(b *testing.B) {
	src := New(64, 64, 64, 2)
	dst := New(64, 64, 64, 2)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		dst.AddPlaneY(src, 0, 0)
	}
}

func BenchmarkAxpyFull(b *testing.B) {
	a := New(64, 64, 64, 2)
	x := New(64, 64, 64, 2)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		a.AxpyFull(0.5, x)
	}
}
