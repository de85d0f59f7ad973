package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChat = "[25/03/2024, 14:30:45] Dana: check https://example.com/tool\n" +
	"[25/03/2024, 14:31:00] Omer: nice\n"

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadChatFiles_CanonicalEntry(t *testing.T) {
	data := buildZip(t, map[string]string{"_chat.txt": sampleChat})

	files, empty, err := ReadChatFiles([]Upload{{Name: "WhatsApp Chat - Gadgets.zip", Data: data}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Empty(t, empty)
	assert.Equal(t, "_chat.txt", files[0].Name)
	assert.Equal(t, sampleChat, files[0].Content)
	assert.Equal(t, "Gadgets", files[0].GroupName)
}

func TestReadChatFiles_NamedExportEntry(t *testing.T) {
	data := buildZip(t, map[string]string{"WhatsApp Chat with Alice.txt": sampleChat})

	files, _, err := ReadChatFiles([]Upload{{Name: "export.zip", Data: data}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Alice", files[0].GroupName)
}

func TestReadChatFiles_HintedTxtNeedsTimestamp(t *testing.T) {
	data := buildZip(t, map[string]string{
		"my chat log.txt": sampleChat,
		"chat notes.txt":  "no timestamps here\njust prose\n",
	})

	files, _, err := ReadChatFiles([]Upload{{Name: "export.zip", Data: data}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "my chat log.txt", files[0].Name)
	assert.Equal(t, "my chat log", files[0].GroupName)
}

func TestReadChatFiles_UnrelatedEntriesSkipped(t *testing.T) {
	data := buildZip(t, map[string]string{
		"notes.txt":            "shopping list\n",
		"photo.jpg":            "\xff\xd8\xff",
		"__MACOSX/._chat.txt":  "resource fork junk",
		"nested/dir/README.md": "docs",
	})

	files, empty, err := ReadChatFiles([]Upload{{Name: "misc.zip", Data: data}})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, []string{"misc.zip"}, empty)
}

func TestReadChatFiles_CorruptArchiveAbortsRequest(t *testing.T) {
	good := buildZip(t, map[string]string{"_chat.txt": sampleChat})

	_, _, err := ReadChatFiles([]Upload{
		{Name: "good.zip", Data: good},
		{Name: "broken.zip", Data: []byte("this is not a zip file")},
	})
	require.Error(t, err)

	var corrupt *CorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, "broken.zip", corrupt.Name)
}

func TestReadChatFiles_MultipleUploadsMerge(t *testing.T) {
	a := buildZip(t, map[string]string{"_chat.txt": sampleChat})
	b := buildZip(t, map[string]string{"WhatsApp Chat with Bob.txt": sampleChat})
	c := buildZip(t, map[string]string{"readme.txt": "nothing chatty\n"})

	files, empty, err := ReadChatFiles([]Upload{
		{Name: "WhatsApp Chat - Deals.zip", Data: a},
		{Name: "second.zip", Data: b},
		{Name: "third.zip", Data: c},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Deals", files[0].GroupName)
	assert.Equal(t, "Bob", files[1].GroupName)
	assert.Equal(t, []string{"third.zip"}, empty)
}

func TestGroupName_Fallbacks(t *testing.T) {
	assert.Equal(t, "Gadgets", groupName("WhatsApp Chat - Gadgets.zip", "_chat.txt"))
	assert.Equal(t, "Alice", groupName("anything.zip", "WhatsApp Chat with Alice.txt"))
	assert.Equal(t, "trip plans", groupName("upload.zip", "trip plans.txt"))
	assert.Equal(t, "", groupName("upload.zip", "_chat.txt"))
}
