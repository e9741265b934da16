package prefs

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/logging"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// XMLFileExt is appended to the preferences name to form the file name
const XMLFileExt = ".xml"

// XMLFile is Preferences persisted to a single XML file.
//
// The whole file is rewritten on every commit: the new document is written
// next to the target and renamed over it, so readers of the file see either
// the old or the new content. The in-memory copy is replaced only after the
// rename succeeds.
type XMLFile struct {
	fs   types.FS
	name string
	path string
	log  zerolog.Logger

	mu   sync.RWMutex
	data map[string]string
}

var _ types.Preferences = (*XMLFile)(nil)

// OpenXML loads dir/<name>.xml, creating dir if needed. A missing file
// yields empty preferences; the file is created on first commit.
func OpenXML(fsys types.FS, dir, name string) (*XMLFile, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "preferences name cannot be empty")
	}
	if _, err := fsys.Stat(dir); err != nil {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create preferences directory %s", dir)
		}
	}

	x := &XMLFile{
		fs:   fsys,
		name: name,
		path: filepath.Join(dir, name+XMLFileExt),
		log:  logging.GetLogger("prefs").With().Str("prefs", name).Logger(),
		data: make(map[string]string),
	}

	raw, err := fsys.ReadFile(x.path)
	switch {
	case err == nil:
		data, err := decodeXML(raw)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrDecode, "failed to parse %s", x.path).
				WithDetail("path", x.path)
		}
		x.data = data
	case stderrors.Is(err, fs.ErrNotExist):
		x.log.Debug().Str("path", x.path).Msg("Preferences file does not exist yet")
	default:
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", x.path)
	}

	return x, nil
}

// Path returns the file backing these preferences
func (x *XMLFile) Path() string {
	return x.path
}

func (x *XMLFile) Name() string {
	return x.name
}

func (x *XMLFile) GetString(key string) (string, bool, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	v, ok := x.data[key]
	return v, ok, nil
}

func (x *XMLFile) All() (map[string]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return copyMap(x.data), nil
}

func (x *XMLFile) Edit() types.Editor {
	return newEditor(x.commit)
}

func (x *XMLFile) commit(b *batch) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	next := b.apply(x.data)
	out, err := encodeXML(next)
	if err != nil {
		return errors.Wrapf(err, errors.ErrEncode, "failed to render %s", x.path)
	}

	tmp := x.path + ".tmp"
	if err := x.fs.WriteFile(tmp, out, 0600); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	if err := x.fs.Rename(tmp, x.path); err != nil {
		_ = x.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", x.path)
	}

	x.data = next
	x.log.Trace().
		Str("path", x.path).
		Bool("clear", b.clear).
		Strs("keys", b.keys()).
		Int("entries", len(next)).
		Msg("Committed preferences")
	return nil
}

func encodeXML(data map[string]string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8" standalone="yes"`)
	root := doc.CreateElement("map")

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		el := root.CreateElement("string")
		el.CreateAttr("name", k)
		el.SetText(data[k])
	}

	// Character references keep CR (and tabs or newlines in key names)
	// from being normalized away by the parser on the next load
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true

	settings := etree.NewIndentSettings()
	settings.Spaces = 4
	settings.PreserveLeafWhitespace = true
	doc.IndentWithSettings(settings)

	return doc.WriteToBytes()
}

// decodeXML reads a shared_prefs document. Typed elements such as
// <int name="n" value="3"/> are read through their value attribute.
func decodeXML(raw []byte) (map[string]string, error) {
	data := make(map[string]string)
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}

	root := doc.SelectElement("map")
	if root == nil {
		return nil, stderrors.New("missing <map> root element")
	}

	for _, el := range root.ChildElements() {
		name := el.SelectAttr("name")
		if name == nil {
			return nil, stderrors.New("<" + el.Tag + "> element without a name attribute")
		}
		switch el.Tag {
		case "string":
			data[name.Value] = el.Text()
		case "set":
			// string sets have no single-value form; they are not produced by this package
			continue
		default:
			data[name.Value] = el.SelectAttrValue("value", "")
		}
	}
	return data, nil
}
