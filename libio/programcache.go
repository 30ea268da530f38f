package libio

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
)

const (
	MagicNumberProgram  = 0x42_47_52_50 // PRGB
	ProgramCacheVersion = 1
	// Drivers may produce different binaries after an update, which they
	// report as a load failure. Entries are dropped long before that matters.
	DefaultProgramMaxAge = 30 * 24 * time.Hour
)

// ProgramBinary is a linked program as returned by the driver. Format is the
// driver specific binary format enum.
type ProgramBinary struct {
	Format uint32
	Data   []byte
}

// ProgramCache stores program binaries on disk, keyed by a hash of the
// shader sources and the driver identification.
type ProgramCache struct {
	Dir    string
	MaxAge time.Duration
	driver string
	now    func() time.Time
}

// NewProgramCache creates a cache in dir. driver should identify the vendor,
// renderer and version of the GL implementation, binaries are not portable
// between them.
func NewProgramCache(dir string, driver string) *ProgramCache {
	return &ProgramCache{
		Dir:    dir,
		MaxAge: DefaultProgramMaxAge,
		driver: driver,
		now:    time.Now,
	}
}

func (c *ProgramCache) Key(sources ...string) string {
	hasher := md5.New()
	for _, src := range sources {
		hasher.Write([]byte(src))
		hasher.Write([]byte{0})
	}
	hasher.Write([]byte(c.driver))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (c *ProgramCache) path(key string) string {
	return filepath.Join(c.Dir, key+".bin")
}

// Get returns false without an error when there is no usable entry. Expired
// entries are removed.
func (c *ProgramCache) Get(key string) (bin ProgramBinary, ok bool, err error) {
	path := c.path(key)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return bin, false, nil
	}
	if err != nil {
		return bin, false, err
	}
	if c.MaxAge > 0 && c.now().Sub(info.ModTime()) > c.MaxAge {
		return bin, false, os.Remove(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return bin, false, err
	}
	defer file.Close()

	bin, err = DecodeProgramBinary(file)
	if err != nil {
		return bin, false, fmt.Errorf("program cache entry %s: %w", key, err)
	}
	return bin, true, nil
}

func (c *ProgramCache) Put(key string, bin ProgramBinary) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("could not create program cache directory: %w", err)
	}
	buf := bytes.NewBuffer(nil)
	if err := EncodeProgramBinary(buf, bin); err != nil {
		return err
	}
	return os.WriteFile(c.path(key), buf.Bytes(), 0644)
}

func EncodeProgramBinary(w io.Writer, bin ProgramBinary) error {
	bw := &BinaryWriter{Dst: w, Order: binary.LittleEndian}
	bw.WriteUInt32(MagicNumberProgram)
	bw.WriteUInt32(ProgramCacheVersion)
	bw.WriteUInt32(bin.Format)
	bw.WriteUInt64(uint64(len(bin.Data)))
	if bw.Err != nil {
		return bw.Err
	}

	zw := lz4.NewWriter(w)
	if _, err := zw.Write(bin.Data); err != nil {
		return err
	}
	return zw.Close()
}

func DecodeProgramBinary(r io.Reader) (bin ProgramBinary, err error) {
	br := &BinaryReader{Src: r, Order: binary.LittleEndian}
	var magic, version uint32
	var length uint64
	br.ReadUInt32(&magic)
	br.ReadUInt32(&version)
	br.ReadUInt32(&bin.Format)
	br.ReadUInt64(&length)
	if br.Err != nil {
		return bin, br.Err
	}
	if magic != MagicNumberProgram {
		return bin, fmt.Errorf("expected magic number 0x%08x but was 0x%08x", MagicNumberProgram, magic)
	}
	if version != ProgramCacheVersion {
		return bin, fmt.Errorf("unsupported program cache version %d", version)
	}

	bin.Data = make([]byte, length)
	if _, err := io.ReadFull(lz4.NewReader(r), bin.Data); err != nil {
		return bin, fmt.Errorf("could not decompress program binary: %w", err)
	}
	return bin, nil
}
