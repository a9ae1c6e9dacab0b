/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/promptbuilder"
)

// verdictPrompt asks for a graded judgment of one element. The rubric keeps
// scores anchored so repeated runs of the same pair stay comparable.
var verdictPrompt = promptbuilder.MustNewPrompt(`<task>
You are grading whether a response exhibits one expected element.
</task>

{{response}}

{{element}}

{{keywords}}

<instructions>
1. Decide whether the response exhibits the expected element.
2. Report confidence from 0.0 to 1.0 using this rubric:
   - 1.0: the element is explicit and complete.
   - 0.75-0.99: present with minor gaps or loose phrasing.
   - 0.5-0.74: partially present or merely implied.
   - 0.01-0.49: weak hints only.
   - 0.0: absent or contradicted.
3. Treat the keywords as phrasing hints, not required tokens. A response can
   exhibit the element without using any of them.
4. Set matched to whether a careful reader would say the element is there.
</instructions>

<output_format>
Return your verdict as a JSON object with this structure:
{
  "matched": true,
  "confidence": 0.0-1.0,
  "reasoning": "one or two sentences on what you saw"
}
</output_format>

Respond with only the JSON object, no additional text.`)

// bindVerdictPrompt binds one response/element pair into verdictPrompt. All
// three placeholders go through the XML encoder.
func bindVerdictPrompt(response string, element evaldef.Element) (*promptbuilder.Prompt, error) {
	p, err := verdictPrompt.BindXML("response", struct {
		XMLName struct{} `xml:"response"`
		Content string   `xml:",chardata"`
	}{
		Content: response,
	})
	if err != nil {
		return nil, err
	}

	p, err = p.BindXML("element", struct {
		XMLName struct{} `xml:"expected_element"`
		Content string   `xml:",chardata"`
	}{
		Content: element.Description,
	})
	if err != nil {
		return nil, err
	}

	return p.BindXML("keywords", struct {
		XMLName struct{} `xml:"keywords"`
		Keyword []string `xml:"keyword"`
	}{
		Keyword: element.Keywords,
	})
}
