// package datacite defines the JSON:API payload types and the HTTP
// client for the DataCite REST API.
//
// https://support.datacite.org/docs/api
package datacite

// DOI lifecycle events accepted by the API.
const (
	EventDraft    = "draft"
	EventPublish  = "publish"
	EventRegister = "register"
)

// ValidEvent reports whether s is an accepted lifecycle event.
func ValidEvent(s string) bool {
	return s == EventDraft || s == EventPublish || s == EventRegister
}

// Title is a single entry of the titles attribute.
type Title struct {
	Title string `json:"title"`
}

// Affiliation links a creator to an organisation identifier (ROR).
type Affiliation struct {
	AffiliationIdentifier       string `json:"affiliationIdentifier,omitempty"`
	AffiliationIdentifierScheme string `json:"affiliationIdentifierScheme,omitempty"`
}

// Creator is the entity credited with creating the resource.
type Creator struct {
	Name        string        `json:"name"`
	NameType    string        `json:"nameType,omitempty"`
	Affiliation []Affiliation `json:"affiliation,omitempty"`
}

// Publisher is the publisher object form introduced in schema 4.5,
// carrying an organisation identifier alongside the name.
type Publisher struct {
	Name                      string `json:"name"`
	SchemeURI                 string `json:"schemeUri,omitempty"`
	PublisherIdentifier       string `json:"publisherIdentifier,omitempty"`
	PublisherIdentifierScheme string `json:"publisherIdentifierScheme,omitempty"`
	Lang                      string `json:"lang,omitempty"`
}

// NameIdentifier identifies a person, typically by ORCID.
type NameIdentifier struct {
	NameIdentifier string `json:"nameIdentifier"`
}

// Contributor is a person associated with the resource.
type Contributor struct {
	Name            string           `json:"name,omitempty"`
	NameType        string           `json:"nameType,omitempty"`
	ContributorType string           `json:"contributorType,omitempty"`
	NameIdentifiers []NameIdentifier `json:"nameIdentifiers,omitempty"`
}

// RelatedItemIdentifier identifies a related item, usually by URL.
type RelatedItemIdentifier struct {
	RelatedItemIdentifier     string `json:"relatedItemIdentifier"`
	RelatedItemIdentifierType string `json:"relatedItemIdentifierType"`
}

// RelatedItem links the DOI to another resource (for example the award
// scheme it was granted under).
type RelatedItem struct {
	Titles                []Title               `json:"titles,omitempty"`
	RelationType          string                `json:"relationType"`
	PublicationYear       string                `json:"publicationYear,omitempty"`
	RelatedItemType       string                `json:"relatedItemType,omitempty"`
	RelatedItemIdentifier RelatedItemIdentifier `json:"relatedItemIdentifier"`
}

// Types holds the resource type classification.
type Types struct {
	ResourceTypeGeneral string `json:"resourceTypeGeneral"`
}

// Attributes is the attribute block of a DOI resource. Exactly one of
// DOI or Prefix is set on create: DOI pins the identifier, Prefix asks
// the server to mint a suffix.
type Attributes struct {
	DOI             string        `json:"doi,omitempty"`
	Prefix          string        `json:"prefix,omitempty"`
	Event           string        `json:"event,omitempty"`
	Titles          []Title       `json:"titles,omitempty"`
	Creators        []Creator     `json:"creators,omitempty"`
	Publisher       *Publisher    `json:"publisher,omitempty"`
	PublicationYear int           `json:"publicationYear,omitempty"`
	Types           *Types        `json:"types,omitempty"`
	URL             string        `json:"url,omitempty"`
	Contributors    []Contributor `json:"contributors,omitempty"`
	RelatedItems    []RelatedItem `json:"relatedItems,omitempty"`

	// Populated on responses only.
	State string `json:"state,omitempty"`
}

// Resource is a single JSON:API resource of type "dois".
type Resource struct {
	ID         string     `json:"id,omitempty"`
	Type       string     `json:"type"`
	Attributes Attributes `json:"attributes"`
}

// Payload is the request/response envelope.
type Payload struct {
	Data Resource `json:"data"`
}

// NewPayload wraps attributes in the JSON:API envelope. id may be empty
// (create requests).
func NewPayload(id string, attrs Attributes) *Payload {
	return &Payload{Data: Resource{ID: id, Type: "dois", Attributes: attrs}}
}

// DOI returns the identifier of a response payload, preferring data.id
// over data.attributes.doi.
func (p *Payload) DOI() string {
	if p == nil {
		return ""
	}
	if p.Data.ID != "" {
		return p.Data.ID
	}
	return p.Data.Attributes.DOI
}

type apiError struct {
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
}

type errorDocument struct {
	Errors []apiError `json:"errors,omitempty"`
}

type listDocument struct {
	Data  []Resource `json:"data"`
	Links struct {
		Next string `json:"next,omitempty"`
	} `json:"links,omitempty"`
}
