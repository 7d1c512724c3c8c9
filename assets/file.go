package assets

import (
	"io"
	"io/ioutil"
)

type file []byte

func loadFile(r io.Reader) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return file(data), nil
}

// File returns the contents of the named raw file. The returned slice is
// shared with the cache and must not be modified.
func (m *Manager) File(name string) ([]byte, error) {
	data, err := m.get(Asset{TypeFile, name})
	if err != nil {
		return nil, err
	}
	return data.(file), nil
}
