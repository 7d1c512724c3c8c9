package assets

import (
	"io"
	"io/ioutil"

	"github.com/golang/freetype/truetype"
)

func loadFont(r io.Reader) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}

// Font returns the named TrueType font.
func (m *Manager) Font(name string) (*truetype.Font, error) {
	data, err := m.get(Asset{TypeFont, name})
	if err != nil {
		return nil, err
	}
	return data.(*truetype.Font), nil
}
