// Copyright 2024 dataprep Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datautil

import (
	"archive/zip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	assert.Equal(t, ".tar.gz", Extension("http://example.com/corpus/reuters21578.tar.gz"))
	assert.Equal(t, ".gz", Extension("http://example.com/train-images-idx3-ubyte.gz"))
	assert.Equal(t, "", Extension("http://example.com/nodots"))
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "nested", "resource.bin")
	require.NoError(t, Download(server.URL, dst))
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	// an existing destination is not fetched again
	require.NoError(t, os.WriteFile(dst, []byte("kept"), 0644))
	require.NoError(t, Download(server.URL, dst))
	content, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(content))
}

func TestDownloadNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	err := Download(server.URL, filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestUnzip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "archive.zip")
	archive, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(archive)
	w, err := zw.Create("inner/file.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, archive.Close())

	extracted := filepath.Join(dir, "extracted")
	fileNames, err := Unzip(archivePath, extracted)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(extracted, "inner", "file.txt")}, fileNames)
	content, err := os.ReadFile(fileNames[0])
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}
