package dungeon

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"labyrinth-server/pkg/logger"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
)

// CompressedExt - расширение сжатых описаний карт
const CompressedExt = ".zst"

//go:embed schema/map.schema.json
var mapSchemaSource string

var (
	mapSchemaOnce sync.Once
	mapSchema     *jsonschema.Schema
	mapSchemaErr  error
)

func compiledMapSchema() (*jsonschema.Schema, error) {
	mapSchemaOnce.Do(func() {
		mapSchema, mapSchemaErr = jsonschema.CompileString("map.schema.json", mapSchemaSource)
	})
	return mapSchema, mapSchemaErr
}

// LoadMap читает описание карты из файла. Файлы *.zst распаковываются.
func LoadMap(path string) (*MapDescription, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	desc, err := DecodeMap(f, strings.HasSuffix(path, CompressedExt))
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", filepath.Base(path), err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "map_loader",
		"path":       path,
		"map_id":     desc.ID,
		"size":       fmt.Sprintf("%dx%d", desc.Width, desc.Height),
		"characters": len(desc.Characters),
		"chains":     len(desc.Events),
	}).Info("Map description loaded.")
	return desc, nil
}

// DecodeMap читает и проверяет описание карты по JSON-схеме
func DecodeMap(r io.Reader, compressed bool) (*MapDescription, error) {
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}

	// 1. Схема
	schema, err := compiledMapSchema()
	if err != nil {
		return nil, fmt.Errorf("compile map schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	// 2. Типизированная распаковка
	var desc MapDescription
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	return &desc, nil
}

// EncodeMap пишет описание карты, при compressed=true сжимает zstd
func EncodeMap(w io.Writer, desc *MapDescription, compressed bool) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	if !compressed {
		_, err = w.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, bytes.NewReader(data)); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// SaveMap пишет описание карты в файл (сжатие по расширению)
func SaveMap(path string, desc *MapDescription) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeMap(f, desc, strings.HasSuffix(path, CompressedExt))
}
