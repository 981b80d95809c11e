package animation2d

import (
	"bytes"

	"github.com/phanxgames/animation2d/codec"
)

// writeAttachment serializes one Attachment, dispatching on Type after a
// shared (type, name) header. Field groups mirror the comments in
// attachment.go: Region carries its own transform and image; Mesh, Path,
// Clipping, and BoundingBox share the skinning block; Mesh adds its
// index/UV geometry; LinkedMesh writes no skinning block, only its image,
// color, parent reference and deform flag; Path adds its curve/closed
// flags; Point is a bare transform marker.
func writeAttachment(w *codec.Writer, buf *bytes.Buffer, a *Attachment) error {
	if err := writeU8(buf, uint8(a.Type)); err != nil {
		return err
	}
	if err := writeName(w, buf, a.Name); err != nil {
		return err
	}

	switch a.Type {
	case AttachmentRegion:
		return writeRegionAttachment(w, buf, a)
	case AttachmentBoundingBox:
		return writeSkinnedBlock(buf, a)
	case AttachmentMesh:
		return writeMeshAttachment(w, buf, a)
	case AttachmentLinkedMesh:
		return writeLinkedMeshAttachment(w, buf, a)
	case AttachmentPath:
		return writePathAttachment(buf, a)
	case AttachmentPoint:
		return writePointAttachment(buf, a)
	case AttachmentClipping:
		return writeSkinnedBlock(buf, a)
	default:
		return shapeErrorf("animation2d: attachment %q: unknown attachment type %d", a.Name, a.Type)
	}
}

func readAttachment(r *codec.Reader, body *bytes.Reader) (*Attachment, error) {
	typeByte, err := readU8(body)
	if err != nil {
		return nil, err
	}
	a := &Attachment{Type: AttachmentType(typeByte)}
	if a.Name, err = readName(r, body); err != nil {
		return nil, err
	}

	switch a.Type {
	case AttachmentRegion:
		err = readRegionAttachment(r, body, a)
	case AttachmentBoundingBox:
		err = readSkinnedBlock(body, a)
	case AttachmentMesh:
		err = readMeshAttachment(r, body, a)
	case AttachmentLinkedMesh:
		err = readLinkedMeshAttachment(r, body, a)
	case AttachmentPath:
		err = readPathAttachment(body, a)
	case AttachmentPoint:
		err = readPointAttachment(body, a)
	case AttachmentClipping:
		err = readSkinnedBlock(body, a)
	default:
		return nil, shapeErrorf("animation2d: attachment %q: unknown attachment type %d", a.Name, a.Type)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func writeRegionAttachment(w *codec.Writer, buf *bytes.Buffer, a *Attachment) error {
	if err := writeU16(buf, w.InternPath(a.ImagePath)); err != nil {
		return err
	}
	if err := writeColor(buf, a.Color); err != nil {
		return err
	}
	vals := [6]float64{a.X, a.Y, a.Rotation, a.ScaleX, a.ScaleY, a.Width}
	for _, v := range vals {
		if err := writeF32(buf, v); err != nil {
			return err
		}
	}
	return writeF32(buf, a.Height)
}

func readRegionAttachment(r *codec.Reader, body *bytes.Reader, a *Attachment) error {
	pathID, err := readU16(body)
	if err != nil {
		return err
	}
	if a.ImagePath, err = r.Path(pathID); err != nil {
		return formatErrorf("animation2d: %v", err)
	}
	if a.Color, err = readColor(body); err != nil {
		return err
	}
	fields := [7]*float64{&a.X, &a.Y, &a.Rotation, &a.ScaleX, &a.ScaleY, &a.Width, &a.Height}
	for _, f := range fields {
		if *f, err = readF32(body); err != nil {
			return err
		}
	}
	return nil
}

// writeSkinnedBlock serializes the BoneCounts/Bones/Weights/Vertices
// skinning block shared by Mesh, Path, Clipping, and BoundingBox
// attachments, plus the trailing VertexCount used by Path and
// Clipping (harmless, always-zero for the other variants).
func writeSkinnedBlock(buf *bytes.Buffer, a *Attachment) error {
	if err := writeInt32Slice(buf, a.BoneCounts); err != nil {
		return err
	}
	if err := writeInt32Slice(buf, a.Bones); err != nil {
		return err
	}
	if err := writeFloat64Slice(buf, a.Weights); err != nil {
		return err
	}
	if err := writeFloat64Slice(buf, a.Vertices); err != nil {
		return err
	}
	return writeI32(buf, a.VertexCount)
}

func readSkinnedBlock(body *bytes.Reader, a *Attachment) error {
	var err error
	if a.BoneCounts, err = readInt32Slice(body); err != nil {
		return err
	}
	if a.Bones, err = readInt32Slice(body); err != nil {
		return err
	}
	if a.Weights, err = readFloat64Slice(body); err != nil {
		return err
	}
	if a.Vertices, err = readFloat64Slice(body); err != nil {
		return err
	}
	if a.VertexCount, err = readI32(body); err != nil {
		return err
	}
	return nil
}

func writeMeshAttachment(w *codec.Writer, buf *bytes.Buffer, a *Attachment) error {
	if err := writeU16(buf, w.InternPath(a.ImagePath)); err != nil {
		return err
	}
	if err := writeColor(buf, a.Color); err != nil {
		return err
	}
	if err := writeSkinnedBlock(buf, a); err != nil {
		return err
	}
	if err := writeUint16Slice(buf, a.Indices); err != nil {
		return err
	}
	return writeFloat64Slice(buf, a.UVs)
}

func readMeshAttachment(r *codec.Reader, body *bytes.Reader, a *Attachment) error {
	pathID, err := readU16(body)
	if err != nil {
		return err
	}
	if a.ImagePath, err = r.Path(pathID); err != nil {
		return formatErrorf("animation2d: %v", err)
	}
	if a.Color, err = readColor(body); err != nil {
		return err
	}
	if err := readSkinnedBlock(body, a); err != nil {
		return err
	}
	if a.Indices, err = readUint16Slice(body); err != nil {
		return err
	}
	if a.UVs, err = readFloat64Slice(body); err != nil {
		return err
	}
	// Edges is derived, not serialized: finalizeSkins calls
	// ComputeMeshEdges on every decoded Mesh attachment.
	return nil
}

func writeLinkedMeshAttachment(w *codec.Writer, buf *bytes.Buffer, a *Attachment) error {
	if err := writeU16(buf, w.InternPath(a.ImagePath)); err != nil {
		return err
	}
	if err := writeColor(buf, a.Color); err != nil {
		return err
	}
	if err := writeName(w, buf, a.ParentSkin); err != nil {
		return err
	}
	if err := writeName(w, buf, a.ParentName); err != nil {
		return err
	}
	return writeBool(buf, a.Deform)
}

func readLinkedMeshAttachment(r *codec.Reader, body *bytes.Reader, a *Attachment) error {
	pathID, err := readU16(body)
	if err != nil {
		return err
	}
	if a.ImagePath, err = r.Path(pathID); err != nil {
		return formatErrorf("animation2d: %v", err)
	}
	if a.Color, err = readColor(body); err != nil {
		return err
	}
	if a.ParentSkin, err = readName(r, body); err != nil {
		return err
	}
	if a.ParentName, err = readName(r, body); err != nil {
		return err
	}
	if a.Deform, err = readBool(body); err != nil {
		return err
	}
	// parent is resolved from (ParentSkin, ParentName, Name) by
	// ResolveLinkedMeshParent during finalizeSkins.
	return nil
}

func writePathAttachment(buf *bytes.Buffer, a *Attachment) error {
	if err := writeSkinnedBlock(buf, a); err != nil {
		return err
	}
	if err := writeBool(buf, a.Closed); err != nil {
		return err
	}
	if err := writeBool(buf, a.ConstantSpeed); err != nil {
		return err
	}
	return writeFloat64Slice(buf, a.Lengths)
}

func readPathAttachment(body *bytes.Reader, a *Attachment) error {
	if err := readSkinnedBlock(body, a); err != nil {
		return err
	}
	var err error
	if a.Closed, err = readBool(body); err != nil {
		return err
	}
	if a.ConstantSpeed, err = readBool(body); err != nil {
		return err
	}
	if a.Lengths, err = readFloat64Slice(body); err != nil {
		return err
	}
	return nil
}

func writePointAttachment(buf *bytes.Buffer, a *Attachment) error {
	for _, v := range [3]float64{a.X, a.Y, a.Rotation} {
		if err := writeF32(buf, v); err != nil {
			return err
		}
	}
	return nil
}

func readPointAttachment(body *bytes.Reader, a *Attachment) error {
	fields := [3]*float64{&a.X, &a.Y, &a.Rotation}
	for _, f := range fields {
		var err error
		if *f, err = readF32(body); err != nil {
			return err
		}
	}
	return nil
}
