package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackge/ai-backend/internal/models"
	"github.com/feedbackge/ai-backend/internal/utils"
)

type memoryArchive struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (a *memoryArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = append(a.keys, key)
	return a.err
}

func TestImportDocument_ExtractsAndArchives(t *testing.T) {
	p := &fakeProvider{reply: `{"questions":[{"question":"Was the menu clear?","type":"yes/no"}]}`}
	archive := &memoryArchive{}
	svc := NewImportService(serviceWith(p), archive, utils.NopLogger())

	reply, err := svc.ImportDocument(context.Background(), &models.UploadRequest{
		File:        []byte("Menu feedback\r\n\r\nGuests found prices fair.\n"),
		Filename:    "feedback.txt",
		SurveyTopic: "Menu",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, reply.Status)
	assert.Equal(t, ModeAI, reply.Mode)
	assert.JSONEq(t, `{"questions":[{"id":1,"type":"yes_no","question":"Was the menu clear?","options":[]}],"message":"`+importSucceeded+`"}`, toJSON(t, reply.Body))

	prompt := p.lastPrompt()
	assert.Contains(t, prompt, "(txt file)")
	assert.Contains(t, prompt, `survey about "Menu"`)
	assert.Contains(t, prompt, "Menu feedback\nGuests found prices fair.")

	require.Len(t, archive.keys, 1)
	assert.True(t, strings.HasPrefix(archive.keys[0], "imports/"))
	assert.True(t, strings.HasSuffix(archive.keys[0], "/feedback.txt"))
}

func TestImportDocument_ArchiveFailureIgnored(t *testing.T) {
	archive := &memoryArchive{err: errors.New("bucket unreachable")}
	svc := NewImportService(degradedService(), archive, utils.NopLogger())

	reply, err := svc.ImportDocument(context.Background(), &models.UploadRequest{
		File:     []byte("some notes"),
		Filename: `C:\Users\me\notes.txt`,
	})
	require.NoError(t, err)
	assert.Equal(t, ModeDegraded, reply.Mode)
	assert.JSONEq(t, `{"questions":[],"message":"`+importUnavailable+`"}`, toJSON(t, reply.Body))
	require.Len(t, archive.keys, 1)
	assert.True(t, strings.HasSuffix(archive.keys[0], "/notes.txt"))
}

func TestImportDocument_Rejects(t *testing.T) {
	p := &fakeProvider{}
	svc := NewImportService(serviceWith(p), nil, utils.NopLogger())

	cases := map[string]*models.UploadRequest{
		"empty file":       {Filename: "a.txt"},
		"unsupported type": {File: []byte("x"), Filename: "legacy.doc", ContentType: "application/msword"},
		"no text":          {File: []byte("\n \n"), Filename: "blank.txt"},
		"corrupt docx":     {File: []byte("not a zip"), Filename: "broken.docx"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ImportDocument(context.Background(), req)
			status, _ := utils.StatusAndMessage(err)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
	assert.Zero(t, p.calls)
}
