// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cardforge/internal/layout"
)

func readyDocument() layout.Document {
	d := layout.New()
	for _, cmd := range []layout.Command{
		layout.SetTemplateID{ID: "tpl_spring"},
		layout.SetOrientation{Orientation: layout.OrientationSquare},
		layout.SetBackgroundImage{
			File:        &layout.File{Name: "bg.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
			Filename:    "bg.png",
			PreviewData: "data:image/png;base64,iVBORw==",
		},
		layout.AddTextArea{ID: layout.FieldRecipientName},
		layout.AddTextArea{ID: layout.FieldMessage},
	} {
		d = layout.Reduce(d, cmd)
	}
	color := "#AbCdEf"
	return layout.Reduce(d, layout.UpdateTextArea{ID: layout.FieldMessage, Patch: layout.TextAreaPatch{FontColor: &color}})
}

// stubUploader records the file it was handed.
type stubUploader struct {
	ref   AssetRef
	err   error
	calls int
	file  *layout.File
}

func (s *stubUploader) UploadAsset(_ context.Context, f *layout.File) (AssetRef, error) {
	s.calls++
	s.file = f
	return s.ref, s.err
}

func TestAssemble_FieldContract(t *testing.T) {
	ref := AssetRef{AssetID: "a1", URL: "https://x/y.png"}
	r := Assemble(readyDocument(), ref)

	if diff := cmp.Diff(ref, r.BackgroundImage); diff != "" {
		t.Errorf("backgroundImage mismatch (-want +got):\n%s", diff)
	}
	for _, a := range r.TextAreas {
		if a.FontColor != strings.ToLower(a.FontColor) {
			t.Errorf("%s fontColor = %q, want lower-case", a.ID, a.FontColor)
		}
	}
	if r.TextAreas[1].FontColor != "#abcdef" {
		t.Errorf("fontColor = %q, want #abcdef", r.TextAreas[1].FontColor)
	}
}

func TestAssemble_DefaultsFontWeight(t *testing.T) {
	d := readyDocument()
	d.TextAreas[0].FontWeight = 0
	r := Assemble(d, AssetRef{AssetID: "a", URL: "u"})
	if r.TextAreas[0].FontWeight != 400 {
		t.Errorf("fontWeight = %d, want 400", r.TextAreas[0].FontWeight)
	}
}

func TestEncode_JSONShape(t *testing.T) {
	r := Assemble(readyDocument(), AssetRef{AssetID: "a1", URL: "https://x/y.png"})
	out, err := Encode(r, FormatJSON)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	s := string(out)
	order := []string{`"templateId"`, `"orientation"`, `"canvas"`, `"backgroundImage"`, `"textAreas"`}
	last := -1
	for _, key := range order {
		i := strings.Index(s, key)
		if i <= last {
			t.Fatalf("key %s out of order in:\n%s", key, s)
		}
		last = i
	}

	areaKeys := []string{`"id"`, `"x"`, `"y"`, `"width"`, `"height"`, `"fontFamily"`, `"fontWeight"`,
		`"fontColor"`, `"minFontSize"`, `"maxFontSize"`, `"textAlign"`, `"lineHeight"`}
	first := s[strings.Index(s, `"textAreas"`):]
	last = -1
	for _, key := range areaKeys {
		i := strings.Index(first, key)
		if i <= last {
			t.Fatalf("text area key %s out of order", key)
		}
		last = i
	}

	if !strings.Contains(s, "\n  \"templateId\": \"tpl_spring\"") {
		t.Errorf("expected two-space indentation, got:\n%s", s)
	}

	var generic map[string]any
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(generic) != 5 {
		t.Errorf("top-level keys = %d, want 5", len(generic))
	}
}

func TestEncodeDecode_YAML(t *testing.T) {
	r := Assemble(readyDocument(), AssetRef{AssetID: "a1", URL: "https://x/y.png"})
	out, err := Encode(r, FormatYAML)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(out), "assetId: a1") {
		t.Errorf("yaml output missing assetId:\n%s", out)
	}

	back, err := Decode(out, FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(r, back); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestSchema_AcceptsAssembledRecord(t *testing.T) {
	raw, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if !strings.Contains(string(raw), `"textAlign"`) {
		t.Errorf("schema does not describe textAlign:\n%s", raw)
	}

	r := Assemble(readyDocument(), AssetRef{AssetID: "a1", URL: "https://x/y.png"})
	if err := ValidateRecord(r); err != nil {
		t.Errorf("ValidateRecord: %v", err)
	}
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing fields", `{"templateId":"x"}`},
		{"bad orientation", `{"templateId":"x","orientation":"round","canvas":{"width":1,"height":1},
			"backgroundImage":{"assetId":"a","url":"u"},"textAreas":[]}`},
		{"extra field", `{"templateId":"x","orientation":"square","canvas":{"width":1,"height":1},
			"backgroundImage":{"assetId":"a","url":"u"},"textAreas":[],"owner":"me"}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateJSON([]byte(tt.raw)); err == nil {
				t.Error("expected an error, got none")
			}
		})
	}
}

func TestExporter_Success(t *testing.T) {
	d := readyDocument()
	up := &stubUploader{ref: AssetRef{AssetID: "a1", URL: "https://x/y.png"}}

	r, err := NewExporter(up, nil).Export(context.Background(), d)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if up.calls != 1 || up.file != d.BackgroundImage.File {
		t.Errorf("uploader called %d times with %v", up.calls, up.file)
	}
	if r.BackgroundImage != up.ref {
		t.Errorf("backgroundImage = %+v", r.BackgroundImage)
	}
	if diff := cmp.Diff(readyDocument(), d); diff != "" {
		t.Errorf("export mutated the document (-want +got):\n%s", diff)
	}
}

func TestExporter_InvalidSkipsUpload(t *testing.T) {
	d := readyDocument()
	d.TextAreas[0].MinFontSize, d.TextAreas[0].MaxFontSize = 50, 20
	up := &stubUploader{}

	_, err := NewExporter(up, nil).Export(context.Background(), d)
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidError", err)
	}
	if len(invalid.Errors) != 1 || invalid.Errors[0].Field != "textArea_0_fontSize" {
		t.Errorf("errors = %v", invalid.Errors)
	}
	if up.calls != 0 {
		t.Error("uploader called for an invalid document")
	}
}

func TestExporter_BadAlignSkipsUpload(t *testing.T) {
	d := readyDocument()
	d.TextAreas[0].TextAlign = "justify"
	up := &stubUploader{}

	_, err := NewExporter(up, nil).Export(context.Background(), d)
	var invalid *InvalidError
	if !errors.As(err, &invalid) || invalid.Errors[0].Field != "record" {
		t.Fatalf("err = %v, want record schema error", err)
	}
	if up.calls != 0 {
		t.Error("uploader called for a record that fails the schema")
	}
}

func TestExporter_UploadFailure(t *testing.T) {
	cause := errors.New("connection reset")
	up := &stubUploader{err: cause}

	_, err := NewExporter(up, nil).Export(context.Background(), readyDocument())
	if !errors.Is(err, ErrUpload) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want ErrUpload wrapping the cause", err)
	}
	if up.calls != 1 {
		t.Errorf("calls = %d, want exactly one attempt", up.calls)
	}
}

func TestVerify(t *testing.T) {
	r := Assemble(readyDocument(), AssetRef{AssetID: "a1", URL: "https://cdn/x/bg.png"})
	if errs := Verify(r); len(errs) != 0 {
		t.Fatalf("Verify = %v, want none", errs)
	}

	d := ToDocument(r)
	if d.BackgroundImage == nil || d.BackgroundImage.Filename != "bg.png" {
		t.Errorf("background = %+v", d.BackgroundImage)
	}

	r.Canvas.Height = 1350
	r.TextAreas[0].X = 2000
	got := Verify(r)
	var fields []string
	for _, e := range got {
		fields = append(fields, e.Field)
	}
	want := []string{"textArea_0_bounds", "canvas"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
