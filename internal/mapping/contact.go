package mapping

import (
	"encoding/base64"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// Base item fields shared by every resource kind.
const (
	FieldETag                 Field = "@odata.etag"
	FieldID                   Field = "id"
	FieldCreatedDateTime      Field = "createdDateTime"
	FieldLastModifiedDateTime Field = "lastModifiedDateTime"
	FieldChangeKey            Field = "changeKey"
)

// Contact fields.
const (
	FieldDisplayName      Field = "displayName"
	FieldEmailAddresses   Field = "emailAddresses"
	FieldParentFolderID   Field = "parentFolderId"
	FieldGivenName        Field = "givenName"
	FieldMiddleName       Field = "middleName"
	FieldSurname          Field = "surname"
	FieldNickName         Field = "nickName"
	FieldTitle            Field = "title"
	FieldCompanyName      Field = "companyName"
	FieldMobilePhone      Field = "mobilePhone"
	FieldPersonalNotes    Field = "personalNotes"
	FieldGeneration       Field = "generation"
	FieldChildren         Field = "children"
	FieldSpouseName       Field = "spouseName"
	FieldBirthday         Field = "birthday"
	FieldInitials         Field = "initials"
	FieldYomiGivenName    Field = "yomiGivenName"
	FieldYomiSurname      Field = "yomiSurname"
	FieldYomiCompanyName  Field = "yomiCompanyName"
	FieldFileAs           Field = "fileAs"
	FieldJobTitle         Field = "jobTitle"
	FieldDepartment       Field = "department"
	FieldOfficeLocation   Field = "officeLocation"
	FieldProfession       Field = "profession"
	FieldManager          Field = "manager"
	FieldAssistantName    Field = "assistantName"
	FieldBusinessHomePage Field = "businessHomePage"
	FieldHomePhones       Field = "homePhones"
	FieldBusinessPhones   Field = "businessPhones"
	FieldIMAddresses      Field = "imAddresses"
	FieldHomeAddress      Field = "homeAddress"
	FieldBusinessAddress  Field = "businessAddress"
	FieldOtherAddress     Field = "otherAddress"
)

// Contact resource identity.
const (
	ContactKind = "contact"
	ContactType = "#microsoft.graph.contact"
)

func readChangeKey(item types.Item) any {
	v, _ := item.Value(types.TagChangeKey)
	b, ok := v.([]byte)
	if !ok || len(b) == 0 {
		return nil
	}
	return base64.StdEncoding.EncodeToString(b)
}

func readETag(item types.Item) any {
	key, ok := readChangeKey(item).(string)
	if !ok {
		return nil
	}
	return `W/"` + key + `"`
}

func readID(item types.Item) any {
	if id := item.ID(); id != "" {
		return id
	}
	return nil
}

func readParentFolderID(item types.Item) any {
	if id := item.FolderID(); id != "" {
		return id
	}
	return nil
}

// baseReads are the store bookkeeping fields every item document starts with.
func baseReads() []ReadEntry {
	return []ReadEntry{
		{FieldETag, readETag},
		{FieldID, readID},
		{FieldCreatedDateTime, readTimestamp(types.TagCreationTime)},
		{FieldLastModifiedDateTime, readTimestamp(types.TagLastModifiedTime)},
		{FieldChangeKey, readChangeKey},
	}
}

// NewContactTable builds the field mapping of the contact resource.
func NewContactTable(logger hclog.Logger) (*Table, error) {
	reads := append(baseReads(),
		ReadEntry{FieldDisplayName, readRawText(types.TagDisplayName)},
		ReadEntry{FieldEmailAddresses, readEmailAddresses},
		ReadEntry{FieldParentFolderID, readParentFolderID},
		ReadEntry{FieldGivenName, readText(types.TagGivenName)},
		ReadEntry{FieldMiddleName, readText(types.TagMiddleName)},
		ReadEntry{FieldSurname, readText(types.TagSurname)},
		ReadEntry{FieldNickName, readText(types.TagNickname)},
		ReadEntry{FieldTitle, readText(types.TagDisplayNamePrefix)},
		ReadEntry{FieldCompanyName, readText(types.TagCompanyName)},
		ReadEntry{FieldMobilePhone, readText(types.TagMobileTelephone)},
		ReadEntry{FieldPersonalNotes, readRawText(types.TagBody)},
		ReadEntry{FieldGeneration, readText(types.TagGeneration)},
		ReadEntry{FieldChildren, readList(types.TagChildrensNames)},
		ReadEntry{FieldSpouseName, readText(types.TagSpouseName)},
		ReadEntry{FieldBirthday, readTimestamp(types.TagBirthday)},
		ReadEntry{FieldInitials, readText(types.TagInitials)},
		ReadEntry{FieldYomiGivenName, readText(types.TagYomiFirstName)},
		ReadEntry{FieldYomiSurname, readText(types.TagYomiLastName)},
		ReadEntry{FieldYomiCompanyName, readText(types.TagYomiCompanyName)},
		ReadEntry{FieldFileAs, readRawText(types.TagFileUnder)},
		ReadEntry{FieldJobTitle, readText(types.TagTitle)},
		ReadEntry{FieldDepartment, readText(types.TagDepartmentName)},
		ReadEntry{FieldOfficeLocation, readText(types.TagOfficeLocation)},
		ReadEntry{FieldProfession, readText(types.TagProfession)},
		ReadEntry{FieldManager, readText(types.TagManagerName)},
		ReadEntry{FieldAssistantName, readText(types.TagAssistant)},
		ReadEntry{FieldBusinessHomePage, readText(types.TagBusinessHomePage)},
		ReadEntry{FieldHomePhones, readPhones(types.TagHomeTelephone, types.TagHome2Telephone)},
		ReadEntry{FieldBusinessPhones, readPhones(types.TagBusinessTelephone, types.TagBusiness2Telephone)},
		ReadEntry{FieldIMAddresses, readJoined(types.TagInstantMessagingAddress)},
		ReadEntry{FieldHomeAddress, readAddress(AddressHome)},
		ReadEntry{FieldBusinessAddress, readAddress(AddressBusiness)},
		ReadEntry{FieldOtherAddress, readAddress(AddressOther)},
	)

	writes := []WriteEntry{
		{Field: FieldDisplayName, Write: writeText(types.TagDisplayName)},
		{Field: FieldEmailAddresses, Write: writeEmailAddresses, Composite: true},
		{Field: FieldGivenName, Write: writeText(types.TagGivenName)},
		{Field: FieldMiddleName, Write: writeText(types.TagMiddleName)},
		{Field: FieldSurname, Write: writeText(types.TagSurname)},
		{Field: FieldNickName, Write: writeText(types.TagNickname)},
		{Field: FieldTitle, Write: writeText(types.TagDisplayNamePrefix)},
		{Field: FieldCompanyName, Write: writeText(types.TagCompanyName)},
		{Field: FieldMobilePhone, Write: writeText(types.TagMobileTelephone)},
		{Field: FieldPersonalNotes, Write: writeStringified(types.TagBody)},
		{Field: FieldGeneration, Write: writeText(types.TagGeneration)},
		{Field: FieldChildren, Write: writeList(types.TagChildrensNames)},
		{Field: FieldSpouseName, Write: writeText(types.TagSpouseName)},
		{Field: FieldBirthday, Write: writeTimestamp(types.TagBirthday)},
		{Field: FieldInitials, Write: writeText(types.TagInitials)},
		{Field: FieldYomiGivenName, Write: writeText(types.TagYomiFirstName)},
		{Field: FieldYomiSurname, Write: writeText(types.TagYomiLastName)},
		{Field: FieldYomiCompanyName, Write: writeText(types.TagYomiCompanyName)},
		{Field: FieldFileAs, Write: writeText(types.TagFileUnder)},
		{Field: FieldJobTitle, Write: writeText(types.TagTitle)},
		{Field: FieldDepartment, Write: writeText(types.TagDepartmentName)},
		{Field: FieldOfficeLocation, Write: writeText(types.TagOfficeLocation)},
		{Field: FieldProfession, Write: writeText(types.TagProfession)},
		{Field: FieldManager, Write: writeText(types.TagManagerName)},
		{Field: FieldAssistantName, Write: writeText(types.TagAssistant)},
		{Field: FieldBusinessHomePage, Write: writeText(types.TagBusinessHomePage)},
		{Field: FieldHomePhones, Write: writePhones(types.TagHomeTelephone, types.TagHome2Telephone), Composite: true},
		{Field: FieldBusinessPhones, Write: writePhones(types.TagBusinessTelephone, types.TagBusiness2Telephone), Composite: true},
		{Field: FieldIMAddresses, Write: writeJoined(types.TagInstantMessagingAddress), Composite: true},
		{Field: FieldHomeAddress, Write: writeAddress(AddressHome), Composite: true},
		{Field: FieldBusinessAddress, Write: writeAddress(AddressBusiness), Composite: true},
		{Field: FieldOtherAddress, Write: writeAddress(AddressOther), Composite: true},
	}

	return NewTable(ContactKind, ContactType, reads, writes, logger)
}
