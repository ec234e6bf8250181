package hooks

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.PostBinaryHook = Pad{}
	_ ports.PostBinaryHook = Checksum{}
	_ ports.PostBinaryHook = Merge{}
	_ ports.PostBinaryHook = Collapse{}
)

// Pad grows the artifact to the next multiple of size, less reserve bytes.
type Pad struct{}

// ID implements ports.PostBinaryHook.
func (Pad) ID() string { return "pad" }

// Apply implements ports.PostBinaryHook.
func (Pad) Apply(ctx context.Context, in domain.HookInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	size, err := argSize(in, "size", "")
	if err != nil {
		return "", err
	}
	if size == 0 {
		return "", zerr.With(domain.ErrInvalidHookArgument, "size", "0")
	}
	reserve, err := argSize(in, "reserve", "0")
	if err != nil {
		return "", err
	}
	if reserve >= size {
		return "", zerr.With(zerr.With(domain.ErrInvalidHookArgument, "reserve", reserve), "size", size)
	}
	fill, err := argFill(in)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(in.Artifact)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", in.Artifact)
	}

	length := info.Size()
	blocks := (length + reserve + size - 1) / size
	if blocks == 0 {
		blocks = 1
	}
	target := blocks*size - reserve
	if err := appendBytes(in.Artifact, bytes.Repeat([]byte{fill}, int(target-length))); err != nil {
		return "", err
	}
	return in.Artifact, nil
}

// Checksum appends the CRC32 (IEEE) of the artifact as four bytes.
type Checksum struct{}

// ID implements ports.PostBinaryHook.
func (Checksum) ID() string { return "checksum" }

// Apply implements ports.PostBinaryHook.
func (Checksum) Apply(ctx context.Context, in domain.HookInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var order binary.ByteOrder
	switch e := in.Arg("endian", "little"); e {
	case "little":
		order = binary.LittleEndian
	case "big":
		order = binary.BigEndian
	default:
		return "", zerr.With(domain.ErrInvalidHookArgument, "endian", e)
	}

	data, err := os.ReadFile(in.Artifact)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read artifact"), "path", in.Artifact)
	}
	sum := make([]byte, 4)
	order.PutUint32(sum, crc32.ChecksumIEEE(data))
	if err := appendBytes(in.Artifact, sum); err != nil {
		return "", err
	}
	return in.Artifact, nil
}

// Merge places a second image at a fixed offset after the artifact, for
// example a bootloader or the image of another core.
type Merge struct{}

// ID implements ports.PostBinaryHook.
func (Merge) ID() string { return "merge" }

// Apply implements ports.PostBinaryHook.
func (Merge) Apply(ctx context.Context, in domain.HookInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	image := in.Arg("image", "")
	if image == "" {
		return "", zerr.With(domain.ErrInvalidHookArgument, "argument", "image")
	}
	if !filepath.IsAbs(image) && len(in.Roots) > 0 {
		image = filepath.Join(in.Roots[0], image)
	}
	offset, err := argSize(in, "offset", "")
	if err != nil {
		return "", err
	}
	fill, err := argFill(in)
	if err != nil {
		return "", err
	}

	primary, err := os.ReadFile(in.Artifact)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read artifact"), "path", in.Artifact)
	}
	secondary, err := os.ReadFile(image) //nolint:gosec // declared by the target
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read merge image"), "path", image)
	}
	if int64(len(primary)) > offset {
		err := zerr.With(domain.ErrInvalidHookArgument, "reason", "artifact overlaps merge offset")
		return "", zerr.With(zerr.With(err, "offset", offset), "size", len(primary))
	}

	var buf bytes.Buffer
	buf.Grow(int(offset) + len(secondary))
	buf.Write(primary)
	buf.Write(bytes.Repeat([]byte{fill}, int(offset)-len(primary)))
	buf.Write(secondary)

	ext := filepath.Ext(in.Artifact)
	out := strings.TrimSuffix(in.Artifact, ext) + "_combined" + ext
	if err := os.WriteFile(out, buf.Bytes(), domain.FilePerm); err != nil { //nolint:gosec // artifacts are world readable
		return "", zerr.With(zerr.Wrap(err, "failed to write merged artifact"), "path", out)
	}
	return out, nil
}

// Collapse turns a directory of region images into one file. Regions named
// after their load address (0x08000000.bin) are placed at that address
// relative to the lowest one with gaps filled; other names are concatenated
// in name order. A regular file passes through unchanged.
type Collapse struct{}

// ID implements ports.PostBinaryHook.
func (Collapse) ID() string { return "collapse" }

// Apply implements ports.PostBinaryHook.
func (Collapse) Apply(ctx context.Context, in domain.HookInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := os.Stat(in.Artifact)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", in.Artifact)
	}
	if !info.IsDir() {
		return in.Artifact, nil
	}
	fill, err := argFill(in)
	if err != nil {
		return "", err
	}

	regions, err := readRegions(in.Artifact)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	var base int64
	for i, r := range regions {
		if r.addressed {
			if i == 0 {
				base = r.address
			}
			pos := r.address - base
			if pos < int64(buf.Len()) {
				return "", zerr.With(zerr.With(domain.ErrInvalidHookArgument, "reason", "overlapping regions"), "region", r.name)
			}
			buf.Write(bytes.Repeat([]byte{fill}, int(pos)-buf.Len()))
		}
		buf.Write(r.data)
	}

	ext := "." + domain.DefaultArtifactExt
	if in.Target != nil {
		ext = "." + in.Target.ArtifactExtension()
	}
	dir := strings.TrimSuffix(in.Artifact, string(filepath.Separator))
	out := strings.TrimSuffix(dir, filepath.Ext(dir)) + ext
	if out == dir {
		// The region directory holds the artifact's own name.
		aside := dir + ".regions"
		if err := os.RemoveAll(aside); err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to clear region directory"), "path", aside)
		}
		if err := os.Rename(dir, aside); err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to move region directory"), "path", dir)
		}
		defer func() { _ = os.RemoveAll(aside) }()
	}
	if err := os.WriteFile(out, buf.Bytes(), domain.FilePerm); err != nil { //nolint:gosec // artifacts are world readable
		return "", zerr.With(zerr.Wrap(err, "failed to write collapsed artifact"), "path", out)
	}
	return out, nil
}

type region struct {
	name      string
	address   int64
	addressed bool
	data      []byte
}

func readRegions(dir string) ([]region, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read region directory"), "path", dir)
	}

	var regions []region
	allAddressed := true
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read region"), "path", e.Name())
		}
		r := region{name: e.Name(), data: data}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if addr, err := strconv.ParseInt(stem, 0, 64); err == nil && strings.HasPrefix(strings.ToLower(stem), "0x") {
			r.address, r.addressed = addr, true
		} else {
			allAddressed = false
		}
		regions = append(regions, r)
	}
	if len(regions) == 0 {
		return nil, zerr.With(domain.ErrInvalidHookArgument, "reason", "empty region directory")
	}

	if allAddressed {
		sort.Slice(regions, func(i, j int) bool { return regions[i].address < regions[j].address })
	} else {
		for i := range regions {
			regions[i].addressed = false
		}
	}
	return regions, nil
}

func appendBytes(path string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0) //nolint:gosec // artifact path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", path)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", path)
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", path)
	}
	return nil
}
