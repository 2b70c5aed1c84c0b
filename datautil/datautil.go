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

// Package datautil fetches and unpacks raw dataset resources.
package datautil

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/zhenghaoz/dataprep/base/log"
)

// Download fetches a resource to a local path, reporting progress on the
// operator-facing stream. An already present destination is left untouched.
// The fetch is a plain blocking call with no timeout and no retry; a stalled
// transfer stalls the caller.
func Download(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	log.Logger().Info("download resource", zap.String("source", src), zap.String("destination", dst))
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return errors.Trace(err)
	}
	output, err := os.Create(dst)
	if err != nil {
		return errors.Trace(err)
	}
	defer output.Close()
	response, err := http.Get(src)
	if err != nil {
		return errors.Trace(err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return errors.Errorf("download %s: %s", src, response.Status)
	}
	pbReader := progressbar.NewReader(response.Body, progressbar.DefaultBytes(
		response.ContentLength,
		"Downloading "+filepath.Base(dst),
	))
	if _, err = io.Copy(output, &pbReader); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Extension returns the full multi-part extension of a URL's file name, e.g.
// ".tar.gz" for ".../reuters21578.tar.gz".
func Extension(url string) string {
	name := url[strings.LastIndex(url, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// Unzip extracts a zip archive below dst and returns the extracted paths.
func Unzip(src, dst string) ([]string, error) {
	var fileNames []string
	r, err := zip.OpenReader(src)
	if err != nil {
		return fileNames, errors.Trace(err)
	}
	defer r.Close()
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return fileNames, errors.Trace(err)
		}
		filePath := filepath.Join(dst, f.Name)
		// Check for ZipSlip. More Info: http://bit.ly/2MsjAWE
		if !strings.HasPrefix(filePath, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fileNames, fmt.Errorf("%s: illegal file path", filePath)
		}
		fileNames = append(fileNames, filePath)
		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(filePath, os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
		} else {
			if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				return fileNames, errors.Trace(err)
			}
			_, err = io.Copy(outFile, rc)
			if err != nil {
				return nil, errors.Trace(err)
			}
			// Close the file without defer to close before next iteration of loop
			if err = outFile.Close(); err != nil {
				return nil, errors.Trace(err)
			}
		}
		if err = rc.Close(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return fileNames, nil
}
