package script

import "time"

// FaxRetrievalHold is how long the flow pretends to fetch the fax document
// before revealing it.
const FaxRetrievalHold = 3 * time.Second

// FaxFinding is one row of the fax-analysis result table.
type FaxFinding struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// FaxReport is the analysis text streamed over the retrieved benefits fax.
const FaxReport = `Document received: 3 pages, Delta Dental benefits breakdown, fax quality good.

Page 1 identifies the member and group: member K-7781-003, group 88-4410 (Smith Manufacturing), PPO plan, effective 01/01/2023, coverage active as of the fax date. The plan year runs on a calendar-year basis.

Page 2 carries the coverage grid. Preventive and diagnostic services (D0100-D1999) pay at 100 percent with no deductible. Basic restorative (D2000-D2999) pays at 80 percent after deductible. Major services including crowns, endodontics and oral surgery pay at 50 percent after deductible. The individual deductible is $50 with a $150 family cap, waived on preventive.

Page 3 lists limitations and exclusions. A 12-month waiting period applies to major services and is shown as satisfied. A missing tooth clause is present: teeth extracted prior to the plan effective date are excluded from prosthetic replacement. Orthodontic benefits carry a $1,000 lifetime maximum restricted to dependents under age 19. Fluoride treatments are limited to two per benefit year through age 14, and sealants to one application per tooth per 36 months on permanent molars through age 15.

No discrepancies found against the eligibility response on file. All extracted values are consistent with the carrier's API data where both sources report the field.`

// FaxFindings is the static results table revealed by the analysis flow.
func FaxFindings() []FaxFinding {
	return []FaxFinding{
		{Field: "Preventive Coverage %", Value: "100%"},
		{Field: "Basic Services Coverage %", Value: "80%"},
		{Field: "Major Services Coverage %", Value: "50%"},
		{Field: "Individual / Family Deductible", Value: "$50 / $150"},
		{Field: "Major Services Waiting Period", Value: "12 mo (satisfied)"},
		{Field: "Missing Tooth Clause", Value: "Yes"},
		{Field: "Ortho Lifetime Maximum", Value: "$1,000 (u19)"},
		{Field: "Fluoride Limitation", Value: "2x/year through age 14"},
		{Field: "Sealant Limitation", Value: "1 per tooth / 36 mo"},
	}
}
