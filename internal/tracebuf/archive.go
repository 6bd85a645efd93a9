package tracebuf

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// archiveDocument is the serialized shape of an archived session trace.
type archiveDocument struct {
	Tag     string   `json:"tag"`
	Records []Record `json:"records"`
}

// Archive writes the retained records to w as LZ4-framed JSON. The session
// trace is small but repetitive; the frame keeps archived sessions cheap
// to store in bulk.
func (l *Log) Archive(w io.Writer) error {
	doc := archiveDocument{Tag: l.tag, Records: l.Snapshot()}

	zw := lz4.NewWriter(w)

	encodeErr := json.NewEncoder(zw).Encode(doc)
	if encodeErr != nil {
		return fmt.Errorf("encode trace archive: %w", encodeErr)
	}

	closeErr := zw.Close()
	if closeErr != nil {
		return fmt.Errorf("flush trace archive: %w", closeErr)
	}

	return nil
}

// ReadArchive decodes an archive produced by Archive and returns the tag
// and records.
func ReadArchive(r io.Reader) (string, []Record, error) {
	var doc archiveDocument

	decodeErr := json.NewDecoder(lz4.NewReader(r)).Decode(&doc)
	if decodeErr != nil {
		return "", nil, fmt.Errorf("decode trace archive: %w", decodeErr)
	}

	return doc.Tag, doc.Records, nil
}
