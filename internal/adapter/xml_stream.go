// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MKhiriev/refsync/models"
)

// Wire element names of the update and id streams.
const (
	elemRecord    = "Record"
	elemTombstone = "Tombstone"
	elemEnd       = "End"
	elemID        = "ID"
)

type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlRecord struct {
	Revision string     `xml:"revision,attr"`
	Fields   []xmlField `xml:"Field"`
}

type xmlTombstone struct {
	ID       string `xml:"id,attr"`
	Revision string `xml:"revision,attr"`
}

type xmlEnd struct {
	ServerCount string `xml:"serverCount,attr"`
}

type xmlManifest struct {
	Types []string `xml:"Type"`
}

// errCallback marks an error raised by the caller's callback so it can be
// told apart from decoding failures and returned untouched.
type errCallback struct{ err error }

func (e errCallback) Error() string { return e.err.Error() }
func (e errCallback) Unwrap() error { return e.err }

// decodeUpdates consumes one update page from r, calling fn for each element.
// Elements it does not know are skipped so the server can extend the format.
func decodeUpdates(r io.Reader, fn func(models.Item) error) (models.Page, error) {
	dec := xml.NewDecoder(r)
	var page models.Page
	ended := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return page, mapReadError(err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case elemRecord, elemTombstone:
			if ended {
				return page, fmt.Errorf("%w: %s after end-of-stream marker", ErrProtocol, se.Name.Local)
			}
			item, err := decodeItem(dec, se)
			if err != nil {
				return page, err
			}
			page.Items++
			if err = fn(item); err != nil {
				return page, errCallback{err}
			}
		case elemEnd:
			var end xmlEnd
			if err = dec.DecodeElement(&end, &se); err != nil {
				return page, mapReadError(err)
			}
			if end.ServerCount != "" {
				n, err := strconv.Atoi(strings.TrimSpace(end.ServerCount))
				if err != nil || n < 0 {
					return page, fmt.Errorf("%w: invalid serverCount %q", ErrProtocol, end.ServerCount)
				}
				page.ServerCount = n
				page.HasServerCount = true
			}
			ended = true
		case "Updates":
			// root element, descend
		default:
			if err = dec.Skip(); err != nil {
				return page, mapReadError(err)
			}
		}
	}

	if !ended {
		return page, fmt.Errorf("%w: stream ended without end-of-stream marker", ErrProtocol)
	}
	return page, nil
}

func decodeItem(dec *xml.Decoder, se xml.StartElement) (models.Item, error) {
	if se.Name.Local == elemTombstone {
		var t xmlTombstone
		if err := dec.DecodeElement(&t, &se); err != nil {
			return nil, mapReadError(err)
		}
		id := strings.TrimSpace(t.ID)
		if id == "" || t.Revision == "" {
			return nil, fmt.Errorf("%w: tombstone without id or revision", ErrProtocol)
		}
		return models.Tombstone{ID: id, Revision: models.Revision(t.Revision)}, nil
	}

	var rec xmlRecord
	if err := dec.DecodeElement(&rec, &se); err != nil {
		return nil, mapReadError(err)
	}
	if rec.Revision == "" {
		return nil, fmt.Errorf("%w: record without revision", ErrProtocol)
	}

	fields := make(models.Fields, len(rec.Fields))
	for _, f := range rec.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: unnamed field", ErrProtocol)
		}
		if _, dup := fields[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrProtocol, f.Name)
		}
		fields[f.Name] = f.Value
	}

	return models.Record{Revision: models.Revision(rec.Revision), Fields: fields}, nil
}

// decodeIDs consumes an id stream from r, calling fn for each id.
func decodeIDs(r io.Reader, fn func(string) error) error {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return mapReadError(err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != elemID {
			continue
		}

		var id string
		if err = dec.DecodeElement(&id, &se); err != nil {
			return mapReadError(err)
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrProtocol)
		}
		if err = fn(id); err != nil {
			return errCallback{err}
		}
	}
}

// decodeManifest parses a change manifest, dropping type tokens the agent
// does not know. The returned slice lists those unknown tokens.
func decodeManifest(body []byte) (models.Manifest, []string, error) {
	var m xmlManifest
	if err := xml.Unmarshal(body, &m); err != nil {
		return nil, nil, fmt.Errorf("%w: decode manifest: %v", ErrProtocol, err)
	}

	manifest := make(models.Manifest, len(m.Types))
	var unknown []string
	for _, raw := range m.Types {
		t, err := models.ParseEntityType(raw)
		if err != nil {
			unknown = append(unknown, raw)
			continue
		}
		manifest[t] = struct{}{}
	}
	return manifest, unknown, nil
}
