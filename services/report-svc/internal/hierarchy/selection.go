package hierarchy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/domain"
)

// ReadSelection читает выбор в YAML
func ReadSelection(r io.Reader) (domain.Selection, error) {
	var sel domain.Selection
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&sel); err != nil && !errors.Is(err, io.EOF) {
		return domain.Selection{}, apperror.Wrap(err, apperror.CodeInvalidArgument, "cannot decode selection: "+err.Error())
	}
	return sel, nil
}

// WriteSelection пишет выбор в YAML
func WriteSelection(w io.Writer, sel domain.Selection) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sel); err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	return enc.Close()
}

// LoadSelectionFile читает файл выбора. Отсутствующий файл - пустой выбор.
func LoadSelectionFile(path string) (domain.Selection, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Selection{}, nil
	}
	if err != nil {
		return domain.Selection{}, apperror.Wrap(err, apperror.CodeInvalidArgument, "cannot open selection file").
			WithField(path)
	}
	defer f.Close()

	sel, err := ReadSelection(f)
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return sel, appErr.WithField(path)
		}
		return sel, err
	}
	return sel, nil
}

// SaveSelectionFile пишет файл выбора через временный файл
func SaveSelectionFile(path string, sel domain.Selection) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".selection-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp selection file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSelection(tmp, sel); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp selection file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
