package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObjects struct {
	objects map[string]string
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestReportArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	objects := newFakeObjects()
	archive := NewReportArchive(objects, "scouting")

	text := "Análisis de 'Deportivo Norte': cuidado con 'Gomez'."
	id, key, err := archive.PutReport(ctx, text)
	if err != nil {
		t.Fatalf("PutReport: %v", err)
	}
	if !util.IsNanoid(id) {
		t.Fatalf("id %q is not a nanoid", id)
	}
	if key != util.ReportObjectKey(id) {
		t.Fatalf("key = %q, want %q", key, util.ReportObjectKey(id))
	}

	got, err := archive.GetReport(ctx, key)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got != text {
		t.Fatalf("GetReport = %q, want %q", got, text)
	}

	if err := archive.DeleteReport(ctx, key); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := archive.GetReport(ctx, key); err == nil {
		t.Fatalf("expected error after delete")
	}
}

func TestPutReportRejectsBlankText(t *testing.T) {
	archive := NewReportArchive(newFakeObjects(), "scouting")
	if _, _, err := archive.PutReport(context.Background(), "  \n "); !errors.Is(err, ErrEmptyReport) {
		t.Fatalf("err = %v, want ErrEmptyReport", err)
	}
}

func TestPutReportWrapsUploadError(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.New("boom")
	archive := NewReportArchive(objects, "scouting")

	_, _, err := archive.PutReport(context.Background(), "texto")
	if err == nil || !errors.Is(err, objects.putErr) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}
