package layout

import "testing"

func twoColumnTree(leftPct, rightPct float64) *Node {
	lp, rp := Percent(leftPct), Percent(rightPct)
	return &Node{
		Direction: Horizontal,
		Children: []*Node{
			{SplitSize: &lp},
			{SplitSize: &rp},
		},
	}
}

func TestComputeEvenSplit(t *testing.T) {
	root := twoColumnTree(50, 50)
	Compute(root, 0, 0, 120, 24)

	if got := root.Children[0].Geom.Cols; got != 60 {
		t.Errorf("left cols = %d, want 60", got)
	}
	if got := root.Children[1].Geom.Cols; got != 60 {
		t.Errorf("right cols = %d, want 60", got)
	}
	if root.Children[1].Geom.X != 60 {
		t.Errorf("right origin = %d, want 60", root.Children[1].Geom.X)
	}
}

func TestComputeFixedPlusPercent(t *testing.T) {
	fixed := Fixed(20)
	pct := Percent(100)
	root := &Node{
		Direction: Horizontal,
		Children: []*Node{
			{SplitSize: &fixed},
			{SplitSize: &pct},
		},
	}
	Compute(root, 0, 0, 120, 24)

	if got := root.Children[0].Geom.Cols; got != 20 {
		t.Errorf("fixed cols = %d, want 20", got)
	}
	if got := root.Children[1].Geom.Cols; got != 100 {
		t.Errorf("percent cols = %d, want 100", got)
	}
}

func TestResizeConservation(t *testing.T) {
	root := twoColumnTree(50, 50)
	Compute(root, 0, 0, 120, 24)

	if err := ResizeBorder(root, 0, DefaultResizeStep); err != nil {
		t.Fatalf("ResizeBorder: %v", err)
	}
	Compute(root, 0, 0, 120, 24)

	sum := root.Children[0].Geom.Cols + root.Children[1].Geom.Cols
	if sum != 120 {
		t.Errorf("child cols sum = %d, want 120", sum)
	}
	if got := root.Children[0].Geom.Cols; got != 70 {
		t.Errorf("left cols after +10 resize = %d, want 70", got)
	}
}

func TestResizeBelowMinimumFails(t *testing.T) {
	root := twoColumnTree(50, 50)
	Compute(root, 0, 0, 12, 24) // 6 cols each, min is 5

	if err := ResizeBorder(root, 0, -5); err != ErrPaneSizeUnchanged {
		t.Errorf("ResizeBorder: got %v, want ErrPaneSizeUnchanged", err)
	}
}

func TestResizeFixedFixedFails(t *testing.T) {
	a, b := Fixed(20), Fixed(20)
	root := &Node{
		Direction: Horizontal,
		Children:  []*Node{{SplitSize: &a}, {SplitSize: &b}},
	}
	Compute(root, 0, 0, 40, 24)

	if err := ResizeBorder(root, 0, 5); err != ErrCantResizeFixedPanes {
		t.Errorf("ResizeBorder: got %v, want ErrCantResizeFixedPanes", err)
	}
}

func TestValidateRejectsOverfullPercent(t *testing.T) {
	a, b := Percent(60), Percent(60)
	root := &Node{
		Direction: Horizontal,
		Children:  []*Node{{SplitSize: &a}, {SplitSize: &b}},
	}
	if err := root.Validate(); err == nil {
		t.Error("Validate() = nil, want error for 120% split")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	root := twoColumnTree(50, 50)
	geoms := DocumentToGeoms(root, 0, 0, 120, 24)

	doc := GeomsToDocument(geoms, nil)
	rtGeoms := DocumentToGeoms(doc, 0, 0, 120, 24)

	if len(rtGeoms) != len(geoms) {
		t.Fatalf("round trip leaf count = %d, want %d", len(rtGeoms), len(geoms))
	}
	for i := range geoms {
		if rtGeoms[i] != geoms[i] {
			t.Errorf("leaf %d = %+v, want %+v", i, rtGeoms[i], geoms[i])
		}
	}
}

func TestLayoutRoundTripThreeWaySplit(t *testing.T) {
	top := twoColumnTree(50, 50)
	bottomPct := Percent(30)
	topSize := Percent(70)
	top.SplitSize = &topSize
	bottom := &Node{SplitSize: &bottomPct}
	root := &Node{
		Direction: Vertical,
		Children:  []*Node{top, bottom},
	}
	geoms := DocumentToGeoms(root, 0, 0, 120, 30)

	doc := GeomsToDocument(geoms, nil)
	rtGeoms := DocumentToGeoms(doc, 0, 0, 120, 30)

	if len(rtGeoms) != len(geoms) {
		t.Fatalf("round trip leaf count = %d, want %d", len(rtGeoms), len(geoms))
	}
}

func TestSwapLayoutsCycle(t *testing.T) {
	t1, _ := NewTree(twoColumnTree(50, 50))
	t2, _ := NewTree(twoColumnTree(30, 70))
	s := NewSwapLayouts(t1, t2)

	if s.Current() != t1 {
		t.Error("Current() should start on the first layout")
	}
	if s.Next() != t2 {
		t.Error("Next() should advance to the second layout")
	}
	if s.Next() != t1 {
		t.Error("Next() should wrap back to the first layout")
	}
}
