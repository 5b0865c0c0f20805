package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	add     *Add
	product *Product
	_       Kernel = add     // Check that Add respects the Kernel interface.
	_       Kernel = product // Check that Product respects the Kernel interface.
)

// Add is the sum of two or more kernels. Nested sums are flattened.
type Add struct {
	parts []Kernel
}

func NewAdd(first, second Kernel) *Add {
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Add:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Add:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Add{
		parts: parts,
	}
}

func (k *Add) Gram(x, y mat.Matrix) *mat.Dense {
	out := k.parts[0].Gram(x, y)
	for _, part := range k.parts[1:] {
		out.Add(out, part.Gram(x, y))
	}
	return out
}

func (k *Add) Var() float64 {
	v := 0.0
	for _, part := range k.parts {
		v += part.Var()
	}
	return v
}

func (k *Add) Equal(other Kernel) bool {
	o, ok := other.(*Add)
	return ok && partsEqual(k.parts, o.parts)
}

// Product is the elementwise product of two or more kernels. Nested
// products are flattened.
type Product struct {
	parts []Kernel
}

func NewProduct(first, second Kernel) *Product {
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Product:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Product:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Product{
		parts: parts,
	}
}

func (k *Product) Gram(x, y mat.Matrix) *mat.Dense {
	out := k.parts[0].Gram(x, y)
	for _, part := range k.parts[1:] {
		out.MulElem(out, part.Gram(x, y))
	}
	return out
}

func (k *Product) Var() float64 {
	v := 1.0
	for _, part := range k.parts {
		v *= part.Var()
	}
	return v
}

func (k *Product) Equal(other Kernel) bool {
	o, ok := other.(*Product)
	return ok && partsEqual(k.parts, o.parts)
}

func partsEqual(a, b []Kernel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
