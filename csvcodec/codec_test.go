// codec_test.go - Tests for CSV decoding, encoding and the row policy

package csvcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "password", "surname", "email", "category", "role", "isTrainer"}

func TestDecodeEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n"} {
		records, err := Decode(input, userColumns)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	records, err := Decode("id,name,password,surname,email,category,role,isTrainer\n", userColumns)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeAssignsByHeaderPosition(t *testing.T) {
	text := "name, id ,role\nAnn,7,Trainer\n"

	records, err := Decode(text, []string{"id", "name", "role", "email"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"id": "7", "name": "Ann", "role": "Trainer", "email": ""}, records[0])
}

func TestDecodeMalformedRows(t *testing.T) {
	text := "id,name,role\n1,Ann\n2,Bob,Player,extra,fields\n\n3,Cid,Trainer\n"

	records, err := Decode(text, []string{"id", "name", "role"})
	require.NoError(t, err)
	require.Len(t, records, 3)

	// short row: only present positions are set
	assert.Equal(t, Record{"id": "1", "name": "Ann", "role": ""}, records[0])
	// long row: surplus fields are dropped, earlier columns untouched
	assert.Equal(t, Record{"id": "2", "name": "Bob", "role": "Player"}, records[1])
	assert.Equal(t, "Cid", records[2]["name"])
}

func TestDecodeBrokenQuote(t *testing.T) {
	_, err := Decode("id,name\n1,\"Ann\n", []string{"id", "name"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeUsesFixedColumns(t *testing.T) {
	records := []Record{
		{"role": "Player", "id": "1", "unknown": "dropped"},
		{"id": "2", "name": "Bob"},
	}

	text, err := Encode(records, []string{"id", "name", "role"})
	require.NoError(t, err)
	assert.Equal(t, "id,name,role\n1,,Player\n2,Bob,\n", text)
}

func TestEncodeEmptyCollectionWritesHeader(t *testing.T) {
	text, err := Encode(nil, []string{"id", "playerId"})
	require.NoError(t, err)
	assert.Equal(t, "id,playerId\n", text)
}

func TestRoundTrip(t *testing.T) {
	records := []Record{
		{"id": "1", "name": "Ann", "password": "x", "surname": "Lee", "email": "a@b.com", "category": "U10", "role": "Trainer", "isTrainer": "true"},
		{"id": "2", "name": "Bob", "password": "y", "surname": "Ray", "email": "b@b.com", "category": "U12", "role": "Player", "isTrainer": "false"},
	}

	text, err := Encode(records, userColumns)
	require.NoError(t, err)
	decoded, err := Decode(text, userColumns)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestRoundTripQuotedValues(t *testing.T) {
	records := []Record{
		{"id": "1", "name": "Lee, Ann", "note": "said \"hi\"\nthen left"},
	}
	columns := []string{"id", "name", "note"}

	text, err := Encode(records, columns)
	require.NoError(t, err)
	decoded, err := Decode(text, columns)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("true"))
	assert.True(t, ParseBool(" TRUE "))
	assert.True(t, ParseBool("True"))
	assert.False(t, ParseBool("false"))
	assert.False(t, ParseBool("yes"))
	assert.False(t, ParseBool(""))
	assert.Equal(t, "true", FormatBool(true))
	assert.Equal(t, "false", FormatBool(false))
}
