// Package ndarray implements the dense ghost-padded grid buffer shared by
// every field component on a tile, plus the strided copy/add primitives the
// halo exchanger assembles into face, edge, and corner transfers.
package ndarray

import "gonum.org/v1/gonum/blas/blas64"

// NDArray3 is a row-major dense float64 buffer over a logical extent
// Nx x Ny x Nz surrounded by a ghost band of width H on every side. Indices
// passed to At/Set and the plane/pencil primitives are logical: 0 is the
// first interior cell, -1..-H address the low ghost band, Nx..Nx+H-1 the
// high one.
type NDArray3 struct {
	Nx, Ny, Nz, H int
	strideI       int
	strideJ       int
	Data          []float64
}

// New allocates a zeroed buffer for a logical extent of nx x ny x nz cells
// with a ghost band of width h.
func New(nx, ny, nz, h int) *NDArray3 {
	if nx < 1 || ny < 1 || nz < 1 || h < 0 {
		panic("ndarray: degenerate extent or negative ghost width")
	}
	gx, gy, gz := nx+2*h, ny+2*h, nz+2*h
	return &NDArray3{
		Nx: nx, Ny: ny, Nz: nz, H: h,
		strideI: gy * gz,
		strideJ: gz,
		Data:    make([]float64, gx*gy*gz),
	}
}

func (a *NDArray3) sameShape(b *NDArray3) bool {
	return a.Nx == b.Nx && a.Ny == b.Ny && a.Nz == b.Nz && a.H == b.H
}

func (a *NDArray3) idx(i, j, k int) int {
	if i < -a.H || i >= a.Nx+a.H || j < -a.H || j >= a.Ny+a.H || k < -a.H || k >= a.Nz+a.H {
		panic("ndarray: index out of bounds")
	}
	return (i+a.H)*a.strideI + (j+a.H)*a.strideJ + (k + a.H)
}

// At returns the value at logical index (i,j,k).
func (a *NDArray3) At(i, j, k int) float64 { return a.Data[a.idx(i, j, k)] }

// Set writes the value at logical index (i,j,k).
func (a *NDArray3) Set(i, j, k int, v float64) { a.Data[a.idx(i, j, k)] = v }

// Zero clears the whole buffer, ghost band included.
func (a *NDArray3) Zero() {
	for i := range a.Data {
		a.Data[i] = 0
	}
}

// --- vector-view helpers -------------------------------------------------

// planeVecX returns the full (Ny+2H)x(Nz+2H) plane at fixed i as one
// contiguous strided vector (varying j,k together is contiguous in the
// row-major layout).
func (a *NDArray3) planeVecX(i int) blas64.Vector {
	n := (a.Ny + 2*a.H) * (a.Nz + 2*a.H)
	off := a.idx(i, -a.H, -a.H)
	return blas64.Vector{N: n, Inc: 1, Data: a.Data[off:]}
}

// planeVecZ returns the full (Nx+2H)x(Ny+2H) plane at fixed k as one
// strided vector: stepping through (i,j) in row-major order advances the
// underlying offset by exactly strideJ each time.
func (a *NDArray3) planeVecZ(k int) blas64.Vector {
	n := (a.Nx + 2*a.H) * (a.Ny + 2*a.H)
	off := a.idx(-a.H, -a.H, k)
	return blas64.Vector{N: n, Inc: a.strideJ, Data: a.Data[off:]}
}

// rowVecYK returns the contiguous K-run at fixed (i,j); used to assemble a
// fixed-j plane one i-row at a time since that plane is not a single
// constant-stride vector.
func (a *NDArray3) rowVecYK(i, j int) blas64.Vector {
	n := a.Nz + 2*a.H
	off := a.idx(i, j, -a.H)
	return blas64.Vector{N: n, Inc: 1, Data: a.Data[off:]}
}

func (a *NDArray3) pencilVecX(j, k int) blas64.Vector {
	n := a.Nx + 2*a.H
	off := a.idx(-a.H, j, k)
	return blas64.Vector{N: n, Inc: a.strideI, Data: a.Data[off:]}
}

func (a *NDArray3) pencilVecY(i, k int) blas64.Vector {
	n := a.Ny + 2*a.H
	off := a.idx(i, -a.H, k)
	return blas64.Vector{N: n, Inc: a.strideJ, Data: a.Data[off:]}
}

func (a *NDArray3) pencilVecZ(i, j int) blas64.Vector {
	n := a.Nz + 2*a.H
	off := a.idx(i, j, -a.H)
	return blas64.Vector{N: n, Inc: 1, Data: a.Data[off:]}
}

// --- face planes (one fixed axis, "vert"/"horz"/"face" in the staggered
// literature) -------------------------------------------------------------

// CopyPlaneX copies the full (j,k) plane at src's index srcI into self's
// plane at dstI. The "vertical" face primitive.
func (a *NDArray3) CopyPlaneX(src *NDArray3, dstI, srcI int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in CopyPlaneX")
	}
	blas64.Copy(src.planeVecX(srcI), a.planeVecX(dstI))
}

// AddPlaneX accumulates src's plane at srcI into self's plane at dstI.
func (a *NDArray3) AddPlaneX(src *NDArray3, dstI, srcI int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in AddPlaneX")
	}
	blas64.Axpy(1, src.planeVecX(srcI), a.planeVecX(dstI))
}

// ZeroPlaneX clears self's plane at i, used to drain a ghost slab once its
// contents have been folded into a neighbour.
func (a *NDArray3) ZeroPlaneX(i int) {
	blas64.Scal(0, a.planeVecX(i))
}

// CopyPlaneY copies the full (i,k) plane at src's index srcJ into self's
// plane at dstJ. The "horizontal" face primitive.
func (a *NDArray3) CopyPlaneY(src *NDArray3, dstJ, srcJ int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in CopyPlaneY")
	}
	for i := -a.H; i < a.Nx+a.H; i++ {
		blas64.Copy(src.rowVecYK(i, srcJ), a.rowVecYK(i, dstJ))
	}
}

// AddPlaneY accumulates src's plane at srcJ into self's plane at dstJ.
func (a *NDArray3) AddPlaneY(src *NDArray3, dstJ, srcJ int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in AddPlaneY")
	}
	for i := -a.H; i < a.Nx+a.H; i++ {
		blas64.Axpy(1, src.rowVecYK(i, srcJ), a.rowVecYK(i, dstJ))
	}
}

// ZeroPlaneY clears self's plane at j.
func (a *NDArray3) ZeroPlaneY(j int) {
	for i := -a.H; i < a.Nx+a.H; i++ {
		blas64.Scal(0, a.rowVecYK(i, j))
	}
}

// CopyPlaneZ copies the full (i,j) plane at src's index srcK into self's
// plane at dstK. The "face" primitive.
func (a *NDArray3) CopyPlaneZ(src *NDArray3, dstK, srcK int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in CopyPlaneZ")
	}
	blas64.Copy(src.planeVecZ(srcK), a.planeVecZ(dstK))
}

// AddPlaneZ accumulates src's plane at srcK into self's plane at dstK.
func (a *NDArray3) AddPlaneZ(src *NDArray3, dstK, srcK int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in AddPlaneZ")
	}
	blas64.Axpy(1, src.planeVecZ(srcK), a.planeVecZ(dstK))
}

// ZeroPlaneZ clears self's plane at k.
func (a *NDArray3) ZeroPlaneZ(k int) {
	blas64.Scal(0, a.planeVecZ(k))
}

// --- pencils (two fixed axes, one free) -----------------------------------

// CopyPencilX copies the i-pencil at src's (srcJ,srcK) into self's pencil at
// (dstJ,dstK).
func (a *NDArray3) CopyPencilX(src *NDArray3, dstJ, dstK, srcJ, srcK int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in CopyPencilX")
	}
	blas64.Copy(src.pencilVecX(srcJ, srcK), a.pencilVecX(dstJ, dstK))
}

func (a *NDArray3) AddPencilX(src *NDArray3, dstJ, dstK, srcJ, srcK int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in AddPencilX")
	}
	blas64.Axpy(1, src.pencilVecX(srcJ, srcK), a.pencilVecX(dstJ, dstK))
}

func (a *NDArray3) ZeroPencilX(j, k int) {
	blas64.Scal(0, a.pencilVecX(j, k))
}

// CopyPencilY copies the j-pencil at src's (srcI,srcK) into self's pencil at
// (dstI,dstK).
func (a *NDArray3) CopyPencilY(src *NDArray3, dstI, dstK, srcI, srcK int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in CopyPencilY")
	}
	blas64.Copy(src.pencilVecY(srcI, srcK), a.pencilVecY(dstI, dstK))
}

func (a *NDArray3) AddPencilY(src *NDArray3, dstI, dstK, srcI, srcK int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in AddPencilY")
	}
	blas64.Axpy(1, src.pencilVecY(srcI, srcK), a.pencilVecY(dstI, dstK))
}

func (a *NDArray3) ZeroPencilY(i, k int) {
	blas64.Scal(0, a.pencilVecY(i, k))
}

// CopyPencilZ copies the k-pencil ("z-dir pencil") at src's (srcI,srcJ) into
// self's pencil at (dstI,dstJ). This is the primitive the 2D diagonal/corner
// exchange relies on: in a 2D tile the z axis is degenerate, so moving a
// whole k-pencil at once carries the entire ghost-inclusive z-extent of a
// single (i,j) corner cell in one call.
func (a *NDArray3) CopyPencilZ(src *NDArray3, dstI, dstJ, srcI, srcJ int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in CopyPencilZ")
	}
	blas64.Copy(src.pencilVecZ(srcI, srcJ), a.pencilVecZ(dstI, dstJ))
}

func (a *NDArray3) AddPencilZ(src *NDArray3, dstI, dstJ, srcI, srcJ int) {
	if !a.sameShape(src) {
		panic("ndarray: shape mismatch in AddPencilZ")
	}
	blas64.Axpy(1, src.pencilVecZ(srcI, srcJ), a.pencilVecZ(dstI, dstJ))
}

func (a *NDArray3) ZeroPencilZ(i, j int) {
	blas64.Scal(0, a.pencilVecZ(i, j))
}

// --- whole-buffer and logical-box accumulation ----------------------------

// AxpyFull adds alpha*x into self over the entire allocated buffer, ghost
// band included. Used by the FDTD push kernels once a curl term has been
// materialized into a same-shaped scratch buffer.
func (a *NDArray3) AxpyFull(alpha float64, x *NDArray3) {
	if !a.sameShape(x) {
		panic("ndarray: shape mismatch in AxpyFull")
	}
	v := blas64.Vector{N: len(a.Data), Inc: 1, Data: a.Data}
	blas64.Axpy(alpha, blas64.Vector{N: len(x.Data), Inc: 1, Data: x.Data}, v)
}

// AxpyLogical adds alpha*x into self over the logical (ghost-excluded) box
// only, one contiguous k-run per (i,j) row. Used for current deposition,
// which must never touch the ghost band directly.
func (a *NDArray3) AxpyLogical(alpha float64, x *NDArray3) {
	if !a.sameShape(x) {
		panic("ndarray: shape mismatch in AxpyLogical")
	}
	for i := 0; i < a.Nx; i++ {
		for j := 0; j < a.Ny; j++ {
			off := a.idx(i, j, 0)
			xoff := x.idx(i, j, 0)
			dst := blas64.Vector{N: a.Nz, Inc: 1, Data: a.Data[off:]}
			src := blas64.Vector{N: a.Nz, Inc: 1, Data: x.Data[xoff:]}
			blas64.Axpy(alpha, src, dst)
		}
	}
}
