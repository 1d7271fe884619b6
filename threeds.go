package judokit

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Field names posted back by the card issuer's access control server.
const (
	acsFieldPaRes = "PaRes"
	acsFieldMD    = "MD"
)

// ThreeDSChallenge is what the caller needs to present the issuer's 3-D Secure
// page: POST PaReq and MD to AcsURL and capture the form the ACS posts back.
type ThreeDSChallenge struct {
	ReceiptID string
	AcsURL    string
	MD        string
	PaReq     string
}

// ParseACSForm extracts the hidden inputs from the page the ACS posts back to
// the terminal URL. The result can be passed to TransactionRequest.ThreeDSecure.
// Parsing is permissive because ACS pages are HTML, not XML.
func ParseACSForm(page []byte) (map[string]string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.AutoClose = xml.HTMLAutoClose
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromBytes(page); err != nil {
		return nil, fmt.Errorf("judokit: parse acs form: %w", err)
	}

	fields := make(map[string]string)
	for _, input := range findElements(doc.Root(), "input") {
		name := input.SelectAttrValue("name", "")
		if name == "" {
			continue
		}
		fields[name] = input.SelectAttrValue("value", "")
	}
	if _, ok := fields[acsFieldPaRes]; !ok {
		return nil, fmt.Errorf("judokit: acs form has no %s field", acsFieldPaRes)
	}
	return fields, nil
}

// threeDSParameters builds the PUT body that finalises a challenge.
func threeDSParameters(payload map[string]string, receiptID string) (Parameters, error) {
	paRes := payload[acsFieldPaRes]
	md := payload[acsFieldMD]
	if paRes == "" || md == "" {
		return nil, NewJudoError(CodeFailed3DS)
	}
	return Parameters{
		"paRes":     paRes,
		"md":        md,
		"receiptId": receiptID,
	}, nil
}

// ============================================
// etree helpers
// ============================================

// findElements walks the tree below root and returns every element whose
// local tag name matches, ignoring case and namespace prefixes.
func findElements(root *etree.Element, localName string) []*etree.Element {
	if root == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		if strings.EqualFold(localTag(el.Tag), localName) {
			out = append(out, el)
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func localTag(tag string) string {
	if idx := strings.LastIndex(tag, ":"); idx >= 0 {
		return tag[idx+1:]
	}
	return tag
}
