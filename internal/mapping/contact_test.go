package mapping

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

func newContactTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewContactTable(nil)
	require.NoError(t, err)
	return table
}

func TestRenderEmptyItem(t *testing.T) {
	table := newContactTable(t)
	item := &memItem{props: map[types.Key]any{}}

	var doc types.Document
	require.NotPanics(t, func() { doc = table.Render(item) })

	lists := map[string]bool{
		"emailAddresses": true, "children": true, "homePhones": true,
		"businessPhones": true, "imAddresses": true,
	}
	addresses := map[string]bool{"homeAddress": true, "businessAddress": true, "otherAddress": true}

	for _, f := range table.Fields() {
		v := doc[string(f)]
		switch {
		case lists[string(f)]:
			assert.Empty(t, v, "list field %s", f)
		case addresses[string(f)]:
			assert.Equal(t, types.Document{}, v, "address field %s", f)
		default:
			assert.Nil(t, v, "scalar field %s", f)
		}
	}
}

func TestRenderEmptyStringsReadAsAbsent(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem().
		with(types.TagGivenName, "").
		with(types.TagDisplayName, "").
		with(types.TagBody, "")

	doc := table.Render(item)

	assert.Nil(t, doc["givenName"])
	assert.Equal(t, "", doc["displayName"])
	assert.Equal(t, "", doc["personalNotes"])
}

func TestRenderBaseFields(t *testing.T) {
	table := newContactTable(t)
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	item := newMemItem().
		with(types.TagCreationTime, created).
		with(types.TagLastModifiedTime, created.Add(time.Hour)).
		with(types.TagChangeKey, []byte("key"))

	doc := table.Render(item)

	assert.Equal(t, "AAMkAD-contact-1", doc["id"])
	assert.Equal(t, "AAMkAD-folder-1", doc["parentFolderId"])
	assert.Equal(t, "2024-03-01T09:30:00Z", doc["createdDateTime"])
	assert.Equal(t, "2024-03-01T10:30:00Z", doc["lastModifiedDateTime"])
	assert.Equal(t, "a2V5", doc["changeKey"])
	assert.Equal(t, `W/"a2V5"`, doc["@odata.etag"])
}

func TestWriteThenReadSymmetry(t *testing.T) {
	table := newContactTable(t)

	tests := []struct {
		field string
		input any
		want  any
	}{
		{"displayName", "Ada Lovelace", "Ada Lovelace"},
		{"givenName", "Ada", "Ada"},
		{"middleName", "King", "King"},
		{"surname", "Lovelace", "Lovelace"},
		{"nickName", "Ada", "Ada"},
		{"title", "Countess", "Countess"},
		{"companyName", "Analytical Engines", "Analytical Engines"},
		{"mobilePhone", "+44 20 0000", "+44 20 0000"},
		{"personalNotes", "Met at the Royal Society", "Met at the Royal Society"},
		{"personalNotes", 42.0, "42"},
		{"generation", "Jr.", "Jr."},
		{"children", []any{"Byron", "Anne"}, []string{"Byron", "Anne"}},
		{"spouseName", "William", "William"},
		{"birthday", "1815-12-10T00:00:00.000Z", "1815-12-10T00:00:00Z"},
		{"birthday", "1990-05-01T12:00:00.123456+0200", "1990-05-01T10:00:00Z"},
		{"initials", "A.L.", "A.L."},
		{"yomiGivenName", "Ada", "Ada"},
		{"yomiSurname", "Lovelace", "Lovelace"},
		{"yomiCompanyName", "AE", "AE"},
		{"fileAs", "Lovelace, Ada", "Lovelace, Ada"},
		{"jobTitle", "Mathematician", "Mathematician"},
		{"department", "Research", "Research"},
		{"officeLocation", "London", "London"},
		{"profession", "Writer", "Writer"},
		{"manager", "Babbage", "Babbage"},
		{"assistantName", "Mary", "Mary"},
		{"businessHomePage", "https://example.org", "https://example.org"},
		{"homePhones", []any{"111", "222"}, []string{"111", "222"}},
		{"businessPhones", []any{"333"}, []string{"333"}},
		{"imAddresses", []any{"ada@im", "lovelace@im"}, []string{"ada@im", "lovelace@im"}},
		{
			"homeAddress",
			map[string]any{"street": "12 St James's Sq", "city": "London", "countryOrRegion": "UK"},
			types.Document{"street": "12 St James's Sq", "city": "London", "countryOrRegion": "UK"},
		},
		{
			"businessAddress",
			map[string]any{"street": "1 Engine Way", "postalCode": "W1", "state": "Greater London"},
			types.Document{"street": "1 Engine Way", "postalCode": "W1", "state": "Greater London"},
		},
		{
			"otherAddress",
			map[string]any{"city": "Marylebone"},
			types.Document{"city": "Marylebone"},
		},
		{
			"emailAddresses",
			[]any{map[string]any{"name": "Ada", "address": "ada@example.org"}},
			[]any{types.Document{"name": "Ada", "address": "ada@example.org"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			require.True(t, table.Writable(Field(tt.field)))
			item := newMemItem()
			require.NoError(t, table.Apply(item, types.Document{tt.field: tt.input}))
			assert.Equal(t, tt.want, table.Render(item)[tt.field])
		})
	}
}

func TestWriteNullRemovesScalar(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem().with(types.TagNickname, "Ada")

	require.NoError(t, table.Apply(item, types.Document{"nickName": nil}))

	_, ok := item.Value(types.TagNickname)
	assert.False(t, ok)
}

func TestAddressPartialWrite(t *testing.T) {
	table := newContactTable(t)

	t.Run("only street written reads back as only street", func(t *testing.T) {
		item := newMemItem()
		require.NoError(t, table.Apply(item, types.Document{
			"homeAddress": map[string]any{"street": "Main St"},
		}))
		assert.Equal(t, types.Document{"street": "Main St"}, table.Render(item)["homeAddress"])
	})

	t.Run("absent sub-fields are left unmodified", func(t *testing.T) {
		item := newMemItem().
			with(types.TagHomeAddressCity, "Paris").
			with(types.TagHomeAddressStreet, "Old St")
		require.NoError(t, table.Apply(item, types.Document{
			"homeAddress": map[string]any{"street": "Main St", "planet": "Earth"},
		}))
		assert.Equal(t, types.Document{"street": "Main St", "city": "Paris"}, table.Render(item)["homeAddress"])
	})

	t.Run("kinds use their own tags", func(t *testing.T) {
		item := newMemItem()
		require.NoError(t, WriteAddress(item, AddressBusiness, map[string]any{"city": "Leeds"}))
		got, _ := item.Value(types.TagWorkAddressCity)
		assert.Equal(t, "Leeds", got)
		assert.Equal(t, types.Document{}, ReadAddress(item, AddressHome))
	})

	t.Run("null sub-field removes only that tag", func(t *testing.T) {
		item := newMemItem().
			with(types.TagHomeAddressCity, "Paris").
			with(types.TagHomeAddressStreet, "Old St")
		require.NoError(t, table.Apply(item, types.Document{
			"homeAddress": map[string]any{"street": nil},
		}))
		_, ok := item.Value(types.TagHomeAddressStreet)
		assert.False(t, ok)
		assert.Equal(t, types.Document{"city": "Paris"}, table.Render(item)["homeAddress"])
	})

	t.Run("null address removes every sub-field", func(t *testing.T) {
		item := newMemItem().
			with(types.TagOtherAddressCity, "Paris").
			with(types.TagOtherAddressStreet, "Old St")
		require.NoError(t, table.Apply(item, types.Document{"otherAddress": nil}))
		assert.Equal(t, types.Document{}, table.Render(item)["otherAddress"])
	})

	t.Run("non-string sub-field is a shape error", func(t *testing.T) {
		err := WriteAddress(newMemItem(), AddressHome, map[string]any{"postalCode": 12345})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})
}

func TestPhoneWrites(t *testing.T) {
	table := newContactTable(t)

	tests := []struct {
		name      string
		existing  string
		input     []any
		wantFirst any
		wantSec   any
	}{
		{"two values fill both tags in order", "", []any{"111", "222"}, "111", "222"},
		{"one value leaves the second tag", "999", []any{"111"}, "111", "999"},
		{"third value is ignored", "", []any{"111", "222", "333"}, "111", "222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newMemItem()
			if tt.existing != "" {
				item.with(types.TagHome2Telephone, tt.existing)
			}
			require.NoError(t, table.Apply(item, types.Document{"homePhones": tt.input}))

			first, _ := item.Value(types.TagHomeTelephone)
			second, _ := item.Value(types.TagHome2Telephone)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantSec, second)
		})
	}
}

func TestPhoneWriteNullClearsTags(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem().
		with(types.TagHomeTelephone, "111").
		with(types.TagHome2Telephone, "222")

	require.NoError(t, table.Apply(item, types.Document{"homePhones": nil}))

	assert.Equal(t, []string{}, table.Render(item)["homePhones"])
	_, ok := item.Value(types.TagHomeTelephone)
	assert.False(t, ok)
}

func TestPhoneReadSkipsEmptyTags(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem().
		with(types.TagBusinessTelephone, "").
		with(types.TagBusiness2Telephone, "222")

	assert.Equal(t, []string{"222"}, table.Render(item)["businessPhones"])
}

func TestEmailAddressesStoreOnlyFirst(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem().
		with(types.TagEmail2EmailAddress, "kept@example.org")

	require.NoError(t, table.Apply(item, types.Document{
		"emailAddresses": []any{
			map[string]any{"name": "Ada", "address": "ada@example.org"},
			map[string]any{"name": "Work", "address": "work@example.org"},
		},
	}))

	assert.Equal(t, []any{
		types.Document{"name": "Ada", "address": "ada@example.org"},
		types.Document{"name": "", "address": "kept@example.org"},
	}, table.Render(item)["emailAddresses"])
}

func TestEmailAddressWithoutAddressIsSkipped(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem()

	require.NoError(t, table.Apply(item, types.Document{
		"emailAddresses": []any{map[string]any{"name": "Ada"}},
		"givenName":      "Ada",
	}))

	assert.Empty(t, table.Render(item)["emailAddresses"])
	assert.Equal(t, "Ada", table.Render(item)["givenName"])
}

func TestRenderIsRepeatableAndConcurrent(t *testing.T) {
	table := newContactTable(t)
	item := newMemItem().
		with(types.TagGivenName, "Ada").
		with(types.TagHomeTelephone, "111").
		with(types.TagHomeAddressCity, "London")
	first := table.Render(item)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			other := newMemItem().with(types.TagSurname, "Babbage")
			assert.Equal(t, "Babbage", table.Render(other)["surname"])
			assert.Equal(t, first, table.Render(item))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, item.writes)
}
