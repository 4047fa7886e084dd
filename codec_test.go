package toggle

import "testing"

const (
	jsonDoc = `{"flags": [{"name": "dark-mode", "enabled": true}]}`
	yamlDoc = "flags:\n  - name: dark-mode\n    enabled: true\n"
)

func decodeWith(t *testing.T, c Codec, data string) (Document, error) {
	t.Helper()
	var doc Document
	err := c.Unmarshal([]byte(data), &doc)
	return doc, err
}

func TestJSONCodec(t *testing.T) {
	doc, err := decodeWith(t, JSONCodec{}, jsonDoc)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(doc.Flags) != 1 || !doc.Flags[0].Enabled {
		t.Errorf("unexpected document: %+v", doc)
	}

	if _, err := decodeWith(t, JSONCodec{}, yamlDoc); err == nil {
		t.Error("expected JSON codec to reject YAML")
	}
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestYAMLCodec(t *testing.T) {
	for _, data := range []string{yamlDoc, jsonDoc} {
		doc, err := decodeWith(t, YAMLCodec{}, data)
		if err != nil {
			t.Fatalf("Unmarshal(%q) failed: %v", data, err)
		}
		if len(doc.Flags) != 1 || doc.Flags[0].Name != "dark-mode" {
			t.Errorf("unexpected document: %+v", doc)
		}
	}
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestAutoCodec_DetectsFormat(t *testing.T) {
	for _, data := range []string{jsonDoc, "  \n" + jsonDoc, yamlDoc} {
		doc, err := decodeWith(t, AutoCodec{}, data)
		if err != nil {
			t.Fatalf("Unmarshal(%q) failed: %v", data, err)
		}
		if len(doc.Flags) != 1 {
			t.Errorf("unexpected document: %+v", doc)
		}
	}
}

func TestAutoCodec_InvalidJSON(t *testing.T) {
	if _, err := decodeWith(t, AutoCodec{}, `{"flags": [}`); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
