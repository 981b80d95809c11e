package animation2d

import "testing"

func squareMeshAttachment() *Attachment {
	// A unit square split into two triangles: (0,0) (1,0) (1,1) (0,1).
	return &Attachment{
		Type:    AttachmentMesh,
		Name:    NewNameId("square"),
		Indices: []uint16{0, 1, 2, 0, 2, 3},
		UVs:     []float64{0, 0, 1, 0, 1, 1, 0, 1},
	}
}

func TestComputeMeshEdgesDedupsAndSortsDescending(t *testing.T) {
	a := squareMeshAttachment()
	a.ComputeMeshEdges()

	if len(a.Edges) == 0 {
		t.Fatal("expected at least one edge")
	}
	for i := 1; i < len(a.Edges); i++ {
		if a.Edges[i-1].SepSquared < a.Edges[i].SepSquared {
			t.Fatalf("edges not sorted descending by SepSquared: %+v", a.Edges)
		}
	}
	seen := make(map[[2]uint16]bool)
	for _, e := range a.Edges {
		key := [2]uint16{e.U0, e.U1}
		if seen[key] {
			t.Fatalf("duplicate undirected edge %v in edge list", key)
		}
		seen[key] = true
		if e.U0 > e.U1 {
			t.Errorf("edge %v not canonicalized (U0 > U1)", key)
		}
	}
}

func TestComputeMeshEdgesKeepsAtMostNine(t *testing.T) {
	// A fan of 8 triangles sharing a center vertex produces many more than
	// 9 candidate edges once duplicates are removed.
	uvs := []float64{0.5, 0.5} // center
	indices := []uint16{}
	const spokes = 8
	for i := 0; i < spokes; i++ {
		angle := float64(i) / spokes
		uvs = append(uvs, angle, 1-angle)
	}
	for i := 0; i < spokes; i++ {
		c := uint16(0)
		a := uint16(1 + i)
		b := uint16(1 + (i+1)%spokes)
		indices = append(indices, c, a, b)
	}
	att := &Attachment{Type: AttachmentMesh, Indices: indices, UVs: uvs}
	att.ComputeMeshEdges()
	if len(att.Edges) > meshEdgeKeepCount {
		t.Errorf("expected at most %d edges, got %d", meshEdgeKeepCount, len(att.Edges))
	}
}

func TestComputeMeshEdgesDropsZeroSeparation(t *testing.T) {
	// Two UVs coincide exactly, so the edge between them has zero
	// separation and must not appear.
	att := &Attachment{
		Type:    AttachmentMesh,
		Indices: []uint16{0, 1, 2},
		UVs:     []float64{0, 0, 0, 0, 1, 1},
	}
	att.ComputeMeshEdges()
	for _, e := range att.Edges {
		if e.U0 == 0 && e.U1 == 1 {
			t.Fatalf("zero-separation edge (0,1) should have been dropped")
		}
	}
}

func TestResolveLinkedMeshParentRequiresMeshType(t *testing.T) {
	notAMesh := &Attachment{Type: AttachmentRegion, Name: NewNameId("region")}
	linked := &Attachment{Type: AttachmentLinkedMesh, Name: NewNameId("linked"), ParentName: NewNameId("region")}

	err := linked.ResolveLinkedMeshParent(func(skin, slot, name NameId) (*Attachment, bool) {
		return notAMesh, true
	})
	if err == nil {
		t.Fatal("expected an error resolving a LinkedMesh parent that is not a Mesh")
	}
}

func TestResolveLinkedMeshParentSucceeds(t *testing.T) {
	mesh := &Attachment{Type: AttachmentMesh, Name: NewNameId("base")}
	linked := &Attachment{Type: AttachmentLinkedMesh, Name: NewNameId("linked"), ParentName: NewNameId("base")}

	err := linked.ResolveLinkedMeshParent(func(skin, slot, name NameId) (*Attachment, bool) {
		return mesh, true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked.Parent() != mesh {
		t.Fatalf("expected Parent() to return the resolved mesh")
	}
}

func TestNormalizePathOrClippingDoublesVertexCount(t *testing.T) {
	p := &Attachment{Type: AttachmentPath, VertexCount: 3}
	p.NormalizePathOrClipping()
	if p.VertexCount != 6 {
		t.Errorf("VertexCount = %d, want 6", p.VertexCount)
	}

	region := &Attachment{Type: AttachmentRegion, VertexCount: 3}
	region.NormalizePathOrClipping()
	if region.VertexCount != 3 {
		t.Errorf("NormalizePathOrClipping must not touch non-Path/Clipping types")
	}
}

func TestAttachmentEqualsDoesNotPropagateBoundingBoxBug(t *testing.T) {
	bbox := &Attachment{Type: AttachmentBoundingBox, Name: NewNameId("hit")}
	region := &Attachment{Type: AttachmentRegion, Name: NewNameId("hit"), ImagePath: "hit.png"}

	// The reference implementation's comparison bug conflated these two
	// variants; this implementation must treat differing Type as unequal.
	if bbox.Equals(region) {
		t.Fatal("BoundingBox and Region attachments must never compare equal")
	}

	bbox2 := &Attachment{Type: AttachmentBoundingBox, Name: NewNameId("other-name")}
	if !bbox.Equals(bbox2) {
		t.Fatal("two BoundingBox attachments must compare equal regardless of name")
	}
}
