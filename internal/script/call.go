package script

import (
	"time"

	"github.com/ricky2013dev/smithpjt-verify/internal/ledger"
)

// VerificationSeed is the benefit breakdown the call session starts from.
// Fields already returned by the payer's eligibility API are pre-verified;
// the rest are what the simulated call goes after.
func VerificationSeed() []ledger.Record {
	return []ledger.Record{
		{Code: "ANNUAL_MAX", ReferenceCode: "D-100", Category: "Plan Maximums", FieldName: "Annual Maximum", PriorValue: "$1,500", Missing: "N", ObtainedValue: "$1,500", VerifiedBy: ledger.VerifiedByAPI},
		{Code: "DEDUCT_IND", ReferenceCode: "D-110", Category: "Deductibles", FieldName: "Individual Deductible", PriorValue: "$50", Missing: "N", ObtainedValue: "$50", VerifiedBy: ledger.VerifiedByAPI},
		{Code: "DEDUCT_FAM", ReferenceCode: "D-111", Category: "Deductibles", FieldName: "Family Deductible", PriorValue: "$150", Missing: "N", ObtainedValue: "$150", VerifiedBy: ledger.VerifiedByAPI},
		{Code: "PREVENT_PCT", ReferenceCode: "D-200", Category: "Coverage", FieldName: "Preventive Coverage %", Missing: "Y"},
		{Code: "BASIC_PCT", ReferenceCode: "D-210", Category: "Coverage", FieldName: "Basic Services Coverage %", Missing: "Y"},
		{Code: "MAJOR_PCT", ReferenceCode: "D-220", Category: "Coverage", FieldName: "Major Services Coverage %", Missing: "Y"},
		{Code: "WAIT_MAJOR", ReferenceCode: "D-300", Category: "Limitations", FieldName: "Major Services Waiting Period", Missing: "Y"},
		{Code: "MISSING_TOOTH", ReferenceCode: "D-310", Category: "Limitations", FieldName: "Missing Tooth Clause", Missing: "Y"},
		{Code: "ORTHO_MAX", ReferenceCode: "D-400", Category: "Orthodontics", FieldName: "Ortho Lifetime Maximum", Missing: "Y"},
	}
}

// VerificationCall is the scripted agent/representative exchange. Questions
// mark their field as being checked; answers land the value.
func VerificationCall() []Action {
	return []Action{
		{Turn: &Turn{Speaker: SpeakerSystem, Text: "Connecting to Delta Dental provider line...", PostDelay: 1200 * time.Millisecond}},
		{Turn: &Turn{Speaker: SpeakerRep, Text: "Thank you for calling Delta Dental provider services, this is Maria. How can I help you today?", PostDelay: 900 * time.Millisecond}},
		{Turn: &Turn{Speaker: SpeakerAgent, Text: "Hi Maria, this is the verification assistant calling from Smith Pediatric Dentistry. I'd like to verify benefits for a patient, member ID K-7781-003, date of birth March 14th, 2017.", PostDelay: 1100 * time.Millisecond}},
		{Turn: &Turn{Speaker: SpeakerRep, Text: "One moment while I pull up that member... Okay, I have the plan in front of me. What do you need?", PostDelay: 900 * time.Millisecond}},
		{
			Check: "PREVENT_PCT",
			Turn:  &Turn{Speaker: SpeakerAgent, Text: "Great, thank you. Could you tell me the coverage percentage for preventive services, like cleanings and exams?", PostDelay: 700 * time.Millisecond},
		},
		{
			Turn:  &Turn{Speaker: SpeakerRep, Text: "Preventive services are covered at one hundred percent, no deductible applied.", PostDelay: 900 * time.Millisecond},
			Write: &FieldWrite{Code: "PREVENT_PCT", Value: "100%", VerifiedBy: ledger.VerifiedByCall},
		},
		{
			Check: "BASIC_PCT",
			Turn:  &Turn{Speaker: SpeakerAgent, Text: "Perfect. And basic services, fillings and simple extractions?", PostDelay: 700 * time.Millisecond},
		},
		{
			Turn:  &Turn{Speaker: SpeakerRep, Text: "Basic services are at eighty percent after the deductible.", PostDelay: 900 * time.Millisecond},
			Write: &FieldWrite{Code: "BASIC_PCT", Value: "80%", VerifiedBy: ledger.VerifiedByCall},
		},
		{
			Check: "MAJOR_PCT",
			Turn:  &Turn{Speaker: SpeakerAgent, Text: "Thank you. How about major services, crowns and root canals?", PostDelay: 700 * time.Millisecond},
		},
		{
			Turn:  &Turn{Speaker: SpeakerRep, Text: "Major services are covered at fifty percent after deductible.", PostDelay: 900 * time.Millisecond},
			Write: &FieldWrite{Code: "MAJOR_PCT", Value: "50%", VerifiedBy: ledger.VerifiedByCall},
		},
		{
			Check: "WAIT_MAJOR",
			Turn:  &Turn{Speaker: SpeakerAgent, Text: "Is there a waiting period on major services for this member?", PostDelay: 700 * time.Millisecond},
		},
		{
			Turn:  &Turn{Speaker: SpeakerRep, Text: "Yes, there is a twelve month waiting period on major services, and it has been satisfied as of January this year.", PostDelay: 900 * time.Millisecond},
			Write: &FieldWrite{Code: "WAIT_MAJOR", Value: "12 mo (satisfied)", VerifiedBy: ledger.VerifiedByCall},
		},
		{
			Check: "MISSING_TOOTH",
			Turn:  &Turn{Speaker: SpeakerAgent, Text: "Does the plan have a missing tooth clause?", PostDelay: 700 * time.Millisecond},
		},
		{
			Turn:  &Turn{Speaker: SpeakerRep, Text: "It does. Teeth missing prior to the effective date are excluded from replacement coverage.", PostDelay: 900 * time.Millisecond},
			Write: &FieldWrite{Code: "MISSING_TOOTH", Value: "Yes", VerifiedBy: ledger.VerifiedByCall},
		},
		{
			Check: "ORTHO_MAX",
			Turn:  &Turn{Speaker: SpeakerAgent, Text: "Last one, I promise. What's the orthodontic lifetime maximum?", PostDelay: 700 * time.Millisecond},
		},
		{
			Turn:  &Turn{Speaker: SpeakerRep, Text: "Ortho has a lifetime maximum of one thousand dollars, dependents under nineteen only.", PostDelay: 900 * time.Millisecond},
			Write: &FieldWrite{Code: "ORTHO_MAX", Value: "$1,000 (u19)", VerifiedBy: ledger.VerifiedByCall},
		},
		{Turn: &Turn{Speaker: SpeakerAgent, Text: "That's everything I needed. Thank you so much for your help, Maria. Have a great day!", PostDelay: 700 * time.Millisecond}},
		{Turn: &Turn{Speaker: SpeakerRep, Text: "You're welcome! Your reference number for this call is VRF-20240311-0042. Goodbye.", PostDelay: 500 * time.Millisecond}},
	}
}
