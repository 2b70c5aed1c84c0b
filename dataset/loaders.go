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

package dataset

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"golang.org/x/net/html"

	"github.com/zhenghaoz/dataprep/cache"
	"github.com/zhenghaoz/dataprep/text"
)

// TabularLoader parses a gzipped whitespace-separated count table whose
// header row names the examples and whose first column names the features,
// plus a tab-separated label file keyed by example name.
type TabularLoader struct{}

func (l *TabularLoader) Load(paths map[string]map[string]string) (*Raw, error) {
	f, err := os.Open(paths["values"]["full"])
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	if !scanner.Scan() {
		return nil, errors.Errorf("empty values table: %v", scanner.Err())
	}
	exampleNames := strings.Fields(scanner.Text())
	m := len(exampleNames)

	// the table is features-by-examples on disk, transpose while reading
	var featureNames []string
	var columns [][]float32
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != m+1 {
			return nil, errors.Errorf("row %q: expected %d values, got %d",
				fields[0], m, len(fields)-1)
		}
		featureNames = append(featureNames, fields[0])
		column := make([]float32, m)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, errors.Trace(err)
			}
			column[i] = float32(v)
		}
		columns = append(columns, column)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	values := make([][]float32, m)
	for i := range values {
		values[i] = make([]float32, len(columns))
		for j := range columns {
			values[i][j] = columns[j][i]
		}
	}

	labels, err := l.loadLabels(paths["labels"]["full"], exampleNames)
	if err != nil {
		return nil, err
	}
	return &Raw{
		Values:       values,
		Labels:       labels,
		ExampleNames: exampleNames,
		FeatureNames: featureNames,
	}, nil
}

func (l *TabularLoader) loadLabels(path string, exampleNames []string) ([]string, error) {
	index := make(map[string]int, len(exampleNames))
	for i, name := range exampleNames {
		index[name] = i
	}
	labels := make([]string, len(exampleNames))
	for i := range labels {
		labels[i] = "0"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		name, label, found := strings.Cut(line, "\t")
		if !found {
			return nil, errors.Errorf("malformed label line %q", line)
		}
		if i, exists := index[name]; exists {
			labels[i] = label
		}
	}
	return labels, errors.Trace(scanner.Err())
}

// IndexedImageLoader parses gzipped IDX image and label files (the MNIST
// binary layout: big-endian magic and dimension header followed by raw
// bytes), concatenating the training and test portions and recording their
// canonical split ranges.
type IndexedImageLoader struct{}

func (l *IndexedImageLoader) Load(paths map[string]map[string]string) (*Raw, error) {
	var values [][]float32
	var labels []string
	var trainingCount int
	pixels := 0
	for _, kind := range []string{"training", "test"} {
		images, width, err := l.readImages(paths["values"][kind])
		if err != nil {
			return nil, err
		}
		kindLabels, err := l.readLabels(paths["labels"][kind])
		if err != nil {
			return nil, err
		}
		if kind == "training" {
			trainingCount = len(images)
		}
		pixels = width
		values = append(values, images...)
		labels = append(labels, kindLabels...)
	}

	m := len(values)
	exampleNames := make([]string, m)
	for i := range exampleNames {
		exampleNames[i] = fmt.Sprintf("image %d", i+1)
	}
	featureNames := make([]string, pixels)
	for j := range featureNames {
		featureNames[j] = fmt.Sprintf("pixel %d", j+1)
	}
	return &Raw{
		Values:       values,
		Labels:       labels,
		ExampleNames: exampleNames,
		FeatureNames: featureNames,
		SplitIndices: map[string]cache.Range{
			"training": {Begin: 0, End: trainingCount},
			"test":     {Begin: trainingCount, End: m},
		},
	}, nil
}

func (l *IndexedImageLoader) readImages(path string) ([][]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	defer gz.Close()
	var header [4]uint32 // magic, count, rows, cols
	if err = binary.Read(gz, binary.BigEndian, &header); err != nil {
		return nil, 0, errors.Trace(err)
	}
	count, pixels := int(header[1]), int(header[2]*header[3])
	images := make([][]float32, count)
	buffer := make([]byte, pixels)
	for i := 0; i < count; i++ {
		if _, err = io.ReadFull(gz, buffer); err != nil {
			return nil, 0, errors.Trace(err)
		}
		images[i] = make([]float32, pixels)
		for j, b := range buffer {
			images[i][j] = float32(b)
		}
	}
	return images, pixels, nil
}

func (l *IndexedImageLoader) readLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer gz.Close()
	var header [2]uint32 // magic, count
	if err = binary.Read(gz, binary.BigEndian, &header); err != nil {
		return nil, errors.Trace(err)
	}
	buffer := make([]byte, header[1])
	if _, err = io.ReadFull(gz, buffer); err != nil {
		return nil, errors.Trace(err)
	}
	labels := make([]string, len(buffer))
	for i, b := range buffer {
		labels[i] = strconv.Itoa(int(b))
	}
	return labels, nil
}

// TaggedCorpusLoader extracts labeled articles from a gzipped tarball of
// SGML-tagged files (the Reuters-21578 layout): each <reuters> element with
// both a topic and a body becomes one example, the first topic its label and
// the bag-of-words of its body the values row. The files are scanned with a
// tag tokenizer rather than an HTML tree parser, since tree construction
// would special-case tags like <body> that the corpus uses as plain markup.
type TaggedCorpusLoader struct{}

func (l *TaggedCorpusLoader) Load(paths map[string]map[string]string) (*Raw, error) {
	f, err := os.Open(paths["all"]["full"])
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer gz.Close()

	var topics []string
	var bodies []string
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		if header.Typeflag != tar.TypeReg || !strings.Contains(header.Name, ".sgm") {
			continue
		}
		fileTopics, fileBodies, err := scanTaggedArticles(reader)
		if err != nil {
			return nil, err
		}
		topics = append(topics, fileTopics...)
		bodies = append(bodies, fileBodies...)
	}

	values, vocabulary := text.BagOfWords(bodies)
	exampleNames := make([]string, len(bodies))
	for i := range exampleNames {
		exampleNames[i] = fmt.Sprintf("article %d", i+1)
	}
	return &Raw{
		Values:       values,
		Labels:       topics,
		ExampleNames: exampleNames,
		FeatureNames: vocabulary,
	}, nil
}

// NewsgroupsLoader extracts a gzipped tarball laid out as
// <kind>/<newsgroup>/<id> (the 20 Newsgroups layout), building bag-of-words
// values over all documents with the newsgroup as label and canonical
// training/test split ranges from the kind directories.
type NewsgroupsLoader struct{}

func (l *NewsgroupsLoader) Load(paths map[string]map[string]string) (*Raw, error) {
	f, err := os.Open(paths["all"]["full"])
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer gz.Close()

	documents := map[string][]string{}
	documentIDs := map[string][]string{}
	newsgroups := map[string][]string{}
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		parts := strings.Split(header.Name, "/")
		if len(parts) != 3 {
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			return nil, errors.Trace(err)
		}
		// directory names look like "20news-bydate-train"
		kindParts := strings.Split(parts[0], "-")
		kind := kindParts[len(kindParts)-1]
		documents[kind] = append(documents[kind], decodeLatin1(content))
		newsgroups[kind] = append(newsgroups[kind], parts[1])
		documentIDs[kind] = append(documentIDs[kind], parts[2])
	}

	trainingCount := len(documents["train"])
	m := trainingCount + len(documents["test"])
	corpus := append(documents["train"], documents["test"]...)
	labels := append(newsgroups["train"], newsgroups["test"]...)
	exampleNames := append(documentIDs["train"], documentIDs["test"]...)

	values, vocabulary := text.BagOfWords(corpus)
	return &Raw{
		Values:       values,
		Labels:       labels,
		ExampleNames: exampleNames,
		FeatureNames: vocabulary,
		SplitIndices: map[string]cache.Range{
			"training": {Begin: 0, End: trainingCount},
			"test":     {Begin: trainingCount, End: m},
		},
	}, nil
}

// decodeLatin1 maps every byte to the Unicode code point of the same value,
// which is exactly the Latin-1 to UTF-8 conversion.
func decodeLatin1(content []byte) string {
	runes := make([]rune, len(content))
	for i, b := range content {
		runes[i] = rune(b)
	}
	return string(runes)
}

// scanTaggedArticles walks the tag stream of one SGML file and collects the
// first topic and the body text of every article carrying both.
func scanTaggedArticles(r io.Reader) (topics, bodies []string, err error) {
	var (
		inTopics, inEntry, inBody bool
		articleTopics             []string
		entry, body               strings.Builder
	)
	tokenizer := html.NewTokenizer(r)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return topics, bodies, nil
			}
			return nil, nil, errors.Trace(tokenizer.Err())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "reuters":
				articleTopics = articleTopics[:0]
				body.Reset()
				inTopics, inEntry, inBody = false, false, false
			case "topics":
				inTopics = true
			case "d":
				if inTopics {
					inEntry = true
					entry.Reset()
				}
			case "body":
				inBody = true
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "reuters":
				if len(articleTopics) > 0 && body.Len() > 0 {
					topics = append(topics, articleTopics[0])
					bodies = append(bodies, body.String())
				}
			case "topics":
				inTopics = false
			case "d":
				if inEntry {
					articleTopics = append(articleTopics, entry.String())
					inEntry = false
				}
			case "body":
				inBody = false
			}
		case html.TextToken:
			if inEntry {
				entry.Write(tokenizer.Text())
			} else if inBody {
				body.Write(tokenizer.Text())
			}
		}
	}
}
