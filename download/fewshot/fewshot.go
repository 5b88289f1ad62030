// Package fewshot downloads the published 16-shot benchmark archive into the
// data directory, so the dataset loaders find the split files they expect.
//
// The archive unpacks to the usual layout:
//
//	16-shot/<dataset>/16-<seed>/{train,dev,test}.tsv
//
// Downloads are skipped when the requested split file already exists, so the
// data directory doubles as a cache (for future reuse).
package fewshot

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/gomlx/gomlx/ml/data"
	"github.com/haderus/ReLAttack/datasets"
	archive "github.com/moby/go-archive"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Fetch makes sure the split file for cfg exists under cfg.BasePath,
// downloading and unpacking the archive at archiveURL when it's missing.
func Fetch(ctx context.Context, archiveURL string, cfg datasets.Config, split datasets.Split) error {
	splitPath, err := datasets.SplitPath(cfg, split)
	if err != nil {
		return err
	}
	if _, err := os.Stat(splitPath); err == nil {
		klog.V(1).Infof("fewshot: %q already present, skipping download", splitPath)
		return nil
	}
	if archiveURL == "" {
		return errors.Errorf("%q is missing and no archive URL is configured", splitPath)
	}

	baseDir := data.ReplaceTildeInDir(cfg.BasePath)
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create data directory %q", baseDir)
	}
	if err := downloadAndUnpack(ctx, archiveURL, baseDir); err != nil {
		return err
	}
	if _, err := os.Stat(splitPath); err != nil {
		return errors.Wrapf(err, "archive %q unpacked but %q is still missing", archiveURL, splitPath)
	}
	return nil
}

// downloadAndUnpack streams the archive to a temporary file inside baseDir
// and unpacks it there. The temporary file never survives the call.
func downloadAndUnpack(ctx context.Context, archiveURL, baseDir string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return errors.Wrapf(err, "bad archive URL %q", archiveURL)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to download %q", archiveURL)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("failed to download %q: %s", archiveURL, resp.Status)
	}

	tmp, err := os.CreateTemp(baseDir, "fewshot-*.download")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %q", baseDir)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "download of %q interrupted", archiveURL)
	}
	if _, err = tmp.Seek(0, io.SeekStart); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to rewind %q", tmpPath)
	}
	klog.V(1).Infof("fewshot: downloaded %d bytes from %q, unpacking into %q", written, archiveURL, baseDir)

	err = archive.Untar(tmp, baseDir, &archive.TarOptions{NoLchown: true})
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "failed to unpack %q into %q", archiveURL, baseDir)
	}
	return nil
}

// SplitPathExists reports whether the split file for cfg is already on disk.
func SplitPathExists(cfg datasets.Config, split datasets.Split) bool {
	splitPath, err := datasets.SplitPath(cfg, split)
	if err != nil {
		return false
	}
	_, err = os.Stat(splitPath)
	return err == nil
}
