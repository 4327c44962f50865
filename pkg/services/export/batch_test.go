package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeAssembler struct {
	failOn int
	calls  []int
}

func (f *fakeAssembler) Assemble(_ context.Context, code int, period string) (*domain.ReportContext, error) {
	f.calls = append(f.calls, code)
	if code == f.failOn {
		return nil, errors.New("source down")
	}
	return &domain.ReportContext{Data: domain.Snapshot{Company: domain.Company{Code: code}, Period: period}}, nil
}

type fakePDF struct{}

func (fakePDF) Render(_ context.Context, rc *domain.ReportContext) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF %d %s", rc.Data.Company.Code, rc.Data.Period)), nil
}

type mockArchiveStore struct {
	mock.Mock
}

func (m *mockArchiveStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *mockArchiveStore) Bucket() string {
	return m.Called().String(0)
}

func fixedNow() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{name: "ordered", raw: "1003,1001,1002", want: []int{1003, 1001, 1002}},
		{name: "spaces and blanks", raw: " 1001 , ,1002,", want: []int{1001, 1002}},
		{name: "duplicates dropped", raw: "1001,1002,1001", want: []int{1001, 1002}},
		{name: "empty", raw: "", wantErr: true},
		{name: "only commas", raw: ",,", wantErr: true},
		{name: "not a number", raw: "1001,abc", wantErr: true},
		{name: "negative", raw: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDs(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIDs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "RPS_Relatorio_1001.pdf", FileName(1001))
}

func TestExporter_WriteZIP_OneEntryPerIDInOrder(t *testing.T) {
	// Given
	assembler := &fakeAssembler{}
	exporter := NewExporter(assembler, fakePDF{}, ExporterOptions{Now: fixedNow})
	ids := []int{1003, 1001, 1002}

	// When
	var buf bytes.Buffer
	err := exporter.WriteZIP(context.Background(), &buf, ids, "Março/2025")

	// Then
	require.NoError(t, err)
	assert.Equal(t, ids, assembler.calls)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	for i, f := range zr.File {
		assert.Equal(t, FileName(ids[i]), f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		var content bytes.Buffer
		_, err = content.ReadFrom(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%%PDF %d Março/2025", ids[i]), content.String())
	}
}

func TestExporter_WriteZIP_StopsAtFirstFailure(t *testing.T) {
	assembler := &fakeAssembler{failOn: 1002}
	exporter := NewExporter(assembler, fakePDF{}, ExporterOptions{})

	err := exporter.WriteZIP(context.Background(), &bytes.Buffer{}, []int{1001, 1002, 1003}, "")

	require.Error(t, err)
	assert.Equal(t, []int{1001, 1002}, assembler.calls)
}

func TestExporter_Archive_Disabled(t *testing.T) {
	exporter := NewExporter(&fakeAssembler{}, fakePDF{}, ExporterOptions{})

	_, err := exporter.Archive(context.Background(), []int{1001}, "")

	assert.ErrorIs(t, err, ErrArchiveDisabled)
	assert.False(t, exporter.HasArchive())
}

func TestExporter_Archive_Uploads(t *testing.T) {
	// Given
	store := new(mockArchiveStore)
	store.On("Bucket").Return("reports")
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > len("batches/2025/03/14/") && key[:len("batches/2025/03/14/")] == "batches/2025/03/14/"
	}), mock.Anything, "application/zip").Return(nil)
	exporter := NewExporter(&fakeAssembler{}, fakePDF{}, ExporterOptions{Archive: store, Prefix: "/batches/", Now: fixedNow})

	// When
	loc, err := exporter.Archive(context.Background(), []int{1001, 1002}, "Março/2025")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "reports", loc.Bucket)
	assert.Contains(t, loc.Key, "batches/2025/03/14/")
	assert.Greater(t, loc.Size, int64(0))
	store.AssertExpectations(t)
}

func TestExporter_Archive_UploadFailure(t *testing.T) {
	store := new(mockArchiveStore)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access denied"))
	exporter := NewExporter(&fakeAssembler{}, fakePDF{}, ExporterOptions{Archive: store})

	_, err := exporter.Archive(context.Background(), []int{1001}, "")

	assert.ErrorIs(t, err, ErrArchiveUpload)
}

func TestExporter_Upload(t *testing.T) {
	body := []byte("PK\x03\x04 archive")

	tests := []struct {
		name    string
		store   func() *mockArchiveStore
		wantErr error
	}{
		{
			name:    "disabled",
			wantErr: ErrArchiveDisabled,
		},
		{
			name: "stores the given body",
			store: func() *mockArchiveStore {
				m := new(mockArchiveStore)
				m.On("Bucket").Return("reports")
				m.On("Put", mock.Anything, mock.AnythingOfType("string"), body, "application/zip").Return(nil)
				return m
			},
		},
		{
			name: "store failure",
			store: func() *mockArchiveStore {
				m := new(mockArchiveStore)
				m.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access denied"))
				return m
			},
			wantErr: ErrArchiveUpload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given an archive that was already built
			assembler := &fakeAssembler{}
			opts := ExporterOptions{Prefix: "batches", Now: fixedNow}
			var store *mockArchiveStore
			if tt.store != nil {
				store = tt.store()
				opts.Archive = store
			}
			exporter := NewExporter(assembler, fakePDF{}, opts)

			// When uploading it
			loc, err := exporter.Upload(context.Background(), body)

			// Then no report is assembled again
			assert.Empty(t, assembler.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "reports", loc.Bucket)
			assert.Contains(t, loc.Key, "batches/2025/03/14/")
			assert.Equal(t, int64(len(body)), loc.Size)
			store.AssertExpectations(t)
		})
	}
}
