// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package containerpacker

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/bitmark-inc/dncore/container"
)

// Pack streams session's chunk files and metadata (including the
// embedded store directory, if any) into out as a zstd-compressed tar
// archive. The descriptor entry is written last, exercising the §4.4
// guarantee that Unpack must find it regardless of position.
func Pack(session *container.ExportSession, out io.Writer) error {
	zw, err := zstd.NewWriter(out)
	if nil != err {
		return err
	}

	tw := tar.NewWriter(zw)

	if err := addTree(tw, session.ChunksDir(), "chunks"); nil != err {
		tw.Close()
		zw.Close()
		return err
	}

	descPath := session.DescriptorPath()
	if err := addTreeExcept(tw, session.MetadataDir(), "metadata", descPath); nil != err {
		tw.Close()
		zw.Close()
		return err
	}

	if err := addFile(tw, descPath, filepath.Join("metadata", filepath.Base(descPath))); nil != err {
		tw.Close()
		zw.Close()
		return err
	}

	if err := tw.Close(); nil != err {
		zw.Close()
		return err
	}
	return zw.Close()
}

func addTree(tw *tar.Writer, dir, archivePrefix string) error {
	return addTreeExcept(tw, dir, archivePrefix, "")
}

func addTreeExcept(tw *tar.Writer, dir, archivePrefix, exclude string) error {
	if _, err := os.Stat(dir); nil != err {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if path == dir || path == exclude {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if nil != err {
			return err
		}
		name := filepath.Join(archivePrefix, rel)
		if info.IsDir() {
			return addDirHeader(tw, name)
		}
		return addFile(tw, path, name)
	})
}

func addDirHeader(tw *tar.Writer, name string) error {
	hdr := &tar.Header{Name: name + "/", Typeflag: tar.TypeDir, Mode: 0o750}
	return tw.WriteHeader(hdr)
}

func addFile(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if nil != err {
		return err
	}
	hdr := &tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0o640,
		Size:     info.Size(),
	}
	if err := tw.WriteHeader(hdr); nil != err {
		return err
	}
	f, err := os.Open(path)
	if nil != err {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
