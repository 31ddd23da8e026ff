package gateway

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"giro-settlement/internal/domain"
)

// Dirs names the three bank directories: outgoing claim files, receipts for
// accepted shipments and inbound OCR or report files.
type Dirs struct {
	Outbox   string `yaml:"outbox"`
	Receipts string `yaml:"receipts"`
	Inbox    string `yaml:"inbox"`
}

// DirChannel exchanges files through local directories, for a mounted bank
// share or for test runs.
type DirChannel struct {
	dirs Dirs
}

// NewDirChannel creates the outbox if it does not exist.
func NewDirChannel(dirs Dirs) (*DirChannel, error) {
	if dirs.Outbox == "" {
		return nil, errors.New("dir channel: outbox is required")
	}
	if err := os.MkdirAll(dirs.Outbox, 0o755); err != nil {
		return nil, fmt.Errorf("could not create outbox: %w", err)
	}
	return &DirChannel{dirs: dirs}, nil
}

// Upload writes the file under a temporary name and renames it, so a reader
// never sees a partial file.
func (c *DirChannel) Upload(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := filepath.Join(c.dirs.Outbox, filepath.Base(name))
	tmp := filepath.Join(c.dirs.Outbox, "."+filepath.Base(name)+".part")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not move %s into place: %w", name, err)
	}
	return nil
}

// ListReceipts implements usecase.DeliveryChannel.
func (c *DirChannel) ListReceipts(ctx context.Context) ([]string, error) {
	entries, err := readDir(c.dirs.Receipts)
	if err != nil {
		return nil, fmt.Errorf("could not list receipts: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// LatestOCRFile implements usecase.DeliveryChannel.
func (c *DirChannel) LatestOCRFile(ctx context.Context) (*domain.InboundFile, error) {
	entries, err := readDir(c.dirs.Inbox)
	if err != nil {
		return nil, fmt.Errorf("could not list inbox: %w", err)
	}
	infos := make([]fs.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("could not stat %s: %w", e.Name(), err)
		}
		infos = append(infos, info)
	}
	latest := newest(infos)
	if latest == nil {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(c.dirs.Inbox, latest.Name()))
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", latest.Name(), err)
	}
	return &domain.InboundFile{Name: latest.Name(), Modified: latest.ModTime(), Data: data}, nil
}

// readDir lists regular, non-hidden files. A missing directory is empty.
func readDir(dir string) ([]fs.DirEntry, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Type().IsRegular() && !hidden(e.Name()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func hidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// newest picks the most recently modified file, breaking ties on name.
func newest(infos []fs.FileInfo) fs.FileInfo {
	if len(infos) == 0 {
		return nil
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].ModTime().Equal(infos[j].ModTime()) {
			return infos[i].ModTime().After(infos[j].ModTime())
		}
		return infos[i].Name() > infos[j].Name()
	})
	return infos[0]
}
