package types

// Item bookkeeping properties maintained by the store.
var (
	TagDisplayName      = Tag(NamespaceMAPI, 0x3001, ValueTypeText)
	TagCreationTime     = Tag(NamespaceMAPI, 0x3007, ValueTypeTimestamp)
	TagLastModifiedTime = Tag(NamespaceMAPI, 0x3008, ValueTypeTimestamp)
	TagChangeKey        = Tag(NamespaceMAPI, 0x65E2, ValueTypeBinary)
	TagBody             = Tag(NamespaceMAPI, 0x1000, ValueTypeText)
)

// Contact name and organization properties.
var (
	TagGeneration        = Tag(NamespaceMAPI, 0x3A05, ValueTypeText)
	TagGivenName         = Tag(NamespaceMAPI, 0x3A06, ValueTypeText)
	TagInitials          = Tag(NamespaceMAPI, 0x3A0A, ValueTypeText)
	TagSurname           = Tag(NamespaceMAPI, 0x3A11, ValueTypeText)
	TagCompanyName       = Tag(NamespaceMAPI, 0x3A16, ValueTypeText)
	TagTitle             = Tag(NamespaceMAPI, 0x3A17, ValueTypeText)
	TagDepartmentName    = Tag(NamespaceMAPI, 0x3A18, ValueTypeText)
	TagOfficeLocation    = Tag(NamespaceMAPI, 0x3A19, ValueTypeText)
	TagAssistant         = Tag(NamespaceMAPI, 0x3A30, ValueTypeText)
	TagBirthday          = Tag(NamespaceMAPI, 0x3A42, ValueTypeTimestamp)
	TagMiddleName        = Tag(NamespaceMAPI, 0x3A44, ValueTypeText)
	TagDisplayNamePrefix = Tag(NamespaceMAPI, 0x3A45, ValueTypeText)
	TagProfession        = Tag(NamespaceMAPI, 0x3A46, ValueTypeText)
	TagSpouseName        = Tag(NamespaceMAPI, 0x3A48, ValueTypeText)
	TagManagerName       = Tag(NamespaceMAPI, 0x3A4E, ValueTypeText)
	TagNickname          = Tag(NamespaceMAPI, 0x3A4F, ValueTypeText)
	TagBusinessHomePage  = Tag(NamespaceMAPI, 0x3A51, ValueTypeText)
	TagChildrensNames    = Tag(NamespaceMAPI, 0x3A58, ValueTypeList)

	TagYomiFirstName           = Tag(NamespaceAddress, 0x802C, ValueTypeText)
	TagYomiLastName            = Tag(NamespaceAddress, 0x802D, ValueTypeText)
	TagYomiCompanyName         = Tag(NamespaceAddress, 0x802E, ValueTypeText)
	TagFileUnder               = Tag(NamespaceAddress, 0x8005, ValueTypeText)
	TagInstantMessagingAddress = Tag(NamespaceAddress, 0x8062, ValueTypeText)
)

// Contact telephone properties.
var (
	TagBusinessTelephone  = Tag(NamespaceMAPI, 0x3A08, ValueTypeText)
	TagHomeTelephone      = Tag(NamespaceMAPI, 0x3A09, ValueTypeText)
	TagBusiness2Telephone = Tag(NamespaceMAPI, 0x3A1B, ValueTypeText)
	TagMobileTelephone    = Tag(NamespaceMAPI, 0x3A1C, ValueTypeText)
	TagHome2Telephone     = Tag(NamespaceMAPI, 0x3A2F, ValueTypeText)
)

// Contact postal address properties.
var (
	TagHomeAddressCity       = Tag(NamespaceMAPI, 0x3A59, ValueTypeText)
	TagHomeAddressCountry    = Tag(NamespaceMAPI, 0x3A5A, ValueTypeText)
	TagHomeAddressPostalCode = Tag(NamespaceMAPI, 0x3A5B, ValueTypeText)
	TagHomeAddressState      = Tag(NamespaceMAPI, 0x3A5C, ValueTypeText)
	TagHomeAddressStreet     = Tag(NamespaceMAPI, 0x3A5D, ValueTypeText)

	TagOtherAddressCity       = Tag(NamespaceMAPI, 0x3A5F, ValueTypeText)
	TagOtherAddressCountry    = Tag(NamespaceMAPI, 0x3A60, ValueTypeText)
	TagOtherAddressPostalCode = Tag(NamespaceMAPI, 0x3A61, ValueTypeText)
	TagOtherAddressState      = Tag(NamespaceMAPI, 0x3A62, ValueTypeText)
	TagOtherAddressStreet     = Tag(NamespaceMAPI, 0x3A63, ValueTypeText)

	TagWorkAddressStreet     = Tag(NamespaceAddress, 0x8045, ValueTypeText)
	TagWorkAddressCity       = Tag(NamespaceAddress, 0x8046, ValueTypeText)
	TagWorkAddressState      = Tag(NamespaceAddress, 0x8047, ValueTypeText)
	TagWorkAddressPostalCode = Tag(NamespaceAddress, 0x8048, ValueTypeText)
	TagWorkAddressCountry    = Tag(NamespaceAddress, 0x8049, ValueTypeText)
)

// Contact e-mail slots. The store keeps at most three addresses per contact,
// each as a display name plus an address.
var (
	TagEmail1DisplayName  = Tag(NamespaceAddress, 0x8080, ValueTypeText)
	TagEmail1EmailAddress = Tag(NamespaceAddress, 0x8083, ValueTypeText)
	TagEmail2DisplayName  = Tag(NamespaceAddress, 0x8090, ValueTypeText)
	TagEmail2EmailAddress = Tag(NamespaceAddress, 0x8093, ValueTypeText)
	TagEmail3DisplayName  = Tag(NamespaceAddress, 0x80A0, ValueTypeText)
	TagEmail3EmailAddress = Tag(NamespaceAddress, 0x80A3, ValueTypeText)
)

// EmailSlot pairs the two tags of one stored e-mail address.
type EmailSlot struct {
	DisplayName PropTag
	Address     PropTag
}

// EmailSlots lists the e-mail slots in storage order.
var EmailSlots = []EmailSlot{
	{DisplayName: TagEmail1DisplayName, Address: TagEmail1EmailAddress},
	{DisplayName: TagEmail2DisplayName, Address: TagEmail2EmailAddress},
	{DisplayName: TagEmail3DisplayName, Address: TagEmail3EmailAddress},
}
