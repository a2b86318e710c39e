// Package manifest reads the package manifest (package.json) of a project, template, or task package.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// FileName is the manifest file looked up inside a directory.
	FileName = "package.json"

	mainFieldConstant                 = "main"
	descriptionFieldConstant          = "description"
	dependenciesFieldConstant         = "dependencies"
	devDependenciesFieldConstant      = "devDependencies"
	fileReaderMissingMessageConstant  = "manifest file reader not configured"
	manifestReadErrorTemplateConstant = "unable to read manifest %s: %w"
	manifestInvalidTemplateConstant   = "manifest %s is not valid JSON"
)

// ErrFileReaderNotConfigured indicates that the reader was constructed without a file source.
var ErrFileReaderNotConfigured = errors.New(fileReaderMissingMessageConstant)

// Manifest holds the manifest fields used by task resolution and dependency installation.
type Manifest struct {
	Main            string
	Description     string
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// FileReader reads a file's content.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Reader parses manifests from a directory.
type Reader struct {
	fileReader FileReader
}

// NewReader constructs a Reader over the provided file source.
func NewReader(fileReader FileReader) (*Reader, error) {
	if fileReader == nil {
		return nil, ErrFileReaderNotConfigured
	}
	return &Reader{fileReader: fileReader}, nil
}

// Read parses directory/package.json. Missing or malformed manifests return an error.
func (reader *Reader) Read(directory string) (Manifest, error) {
	manifestPath := filepath.Join(directory, FileName)
	content, readError := reader.fileReader.ReadFile(manifestPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}
	if !gjson.ValidBytes(content) {
		return Manifest{}, fmt.Errorf(manifestInvalidTemplateConstant, manifestPath)
	}

	return Manifest{
		Main:            strings.TrimSpace(gjson.GetBytes(content, mainFieldConstant).String()),
		Description:     gjson.GetBytes(content, descriptionFieldConstant).String(),
		Dependencies:    stringMap(gjson.GetBytes(content, dependenciesFieldConstant)),
		DevDependencies: stringMap(gjson.GetBytes(content, devDependenciesFieldConstant)),
	}, nil
}

func stringMap(result gjson.Result) map[string]string {
	if !result.IsObject() {
		return map[string]string{}
	}
	values := make(map[string]string)
	result.ForEach(func(key gjson.Result, value gjson.Result) bool {
		values[key.String()] = value.String()
		return true
	})
	return values
}
