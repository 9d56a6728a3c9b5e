// Package content holds the built-in case definitions. This is static
// configuration, not logic: the scoring engine treats it as read-only input.
package content

import "github.com/enso-trainer/backend/internal/domain/clinicalcase"

// Stage keys of the ACS case, in flow order.
const (
	StagePresenting     = "presenting"
	StagePriority       = "priority"
	StageHistoryRank    = "history_rank"
	StageExam           = "exam"
	StageInvestigations = "investigations"
	StageManagement     = "management"
	StageNBS            = "nbs"
	StageHandover       = "handover"
)

// ACSChestPain is the chest-pain-in-triage case: an ACS-style presentation
// for the intern / senior-student level, with AUS escalation cues and
// curriculum mapping.
func ACSChestPain() *clinicalcase.Case {
	return &clinicalcase.Case{
		ID:      3001,
		Title:   "Chest pain in triage",
		Level:   "Intern/MD3-4",
		Systems: []string{"ED", "Cardio"},

		Presenting: "A 45-year-old presents with 30 minutes of central, pressure-like chest pain, nausea, and diaphoresis.",

		VitalsInitial: clinicalcase.Vitals{
			HR: 98, BP: "138/84", RR: 18, SpO2: "98% RA", Temp: "36.8°C",
		},

		CurriculumOutcomes: []string{
			"Flinders MD3-4: Acute chest pain assessment & immediate investigations",
			"AUS practice: ECG within 10 minutes for suspected ACS",
			"Safety & escalation: Recognise red flags and escalate early",
			"Communication: Clear handover & documentation of time-critical actions",
		},

		EscalationCues: []string{
			"ECG shows ischaemia or persistent pain/haemodynamic compromise",
			"VT/VF, hypotension, syncope, or SpO2 < 94% on air",
			"Ongoing chest pain not relieved after initial measures",
			"Rising troponins or high-risk features (e.g. GRACE high-risk)",
		},

		Stages: []clinicalcase.Stage{
			{
				Key:   StagePresenting,
				Title: "Presenting Problem",
				Kind:  clinicalcase.KindInfo,
			},
			{
				Key:    StagePriority,
				Title:  "Immediate Priority",
				Kind:   clinicalcase.KindSingleChoice,
				Prompt: "Immediate priority?",
				Points: 35,
				Options: []clinicalcase.Option{
					{ID: "A", Text: "CT pulmonary angiogram first"},
					{ID: "B", Text: "12-lead ECG within 10 minutes of arrival", Correct: true, SafetyCritical: true, ReviewTag: "ACS_ECG_10MIN"},
					{ID: "C", Text: "Wait for troponin before ECG"},
					{ID: "D", Text: "Discharge with outpatient stress test", Dangerous: true},
				},
				Hints: []string{
					"Nudge (AUS): Which bedside test is both fast and immediately changes ACS management?",
					"Clue: Australian ED chest pain pathways mandate an immediate ECG.",
					"Teaching: Suspected ACS means obtain and read an ECG within 10 minutes.",
				},
				IfCorrect: clinicalcase.Outcome{
					Note:        "ECG obtained promptly; 1 mm ST depression in V4-V6.",
					VitalsDelta: clinicalcase.VitalsDelta{HR: -2},
				},
				IfWrong: clinicalcase.Outcome{
					Note:        "Delay to ECG. Patient more distressed.",
					VitalsDelta: clinicalcase.VitalsDelta{HR: 12},
				},
			},
			{
				Key:    StageHistoryRank,
				Title:  "Targeted History (Prioritise 1-3)",
				Kind:   clinicalcase.KindRanking,
				Prompt: "Prioritise your first 3 history questions (1 = most urgent/impactful):",
				Items: []string{
					"Ask radiation/exertion/relief",
					"Ask risk factors/family history",
					"Ask diaphoresis/SOB/red flags",
				},
				DesiredOrder: []string{
					"Ask diaphoresis/SOB/red flags",
					"Ask radiation/exertion/relief",
					"Ask risk factors/family history",
				},
				ReviewTag: "ACS_RED_FLAGS_FIRST",
			},
			{
				Key:    StageExam,
				Title:  "Focused Exam/Vitals",
				Kind:   clinicalcase.KindInfo,
				Prompt: "General: anxious but alert. Chest clear, S1/S2 normal. No focal neurology.",
				Points: 6,
			},
			{
				Key:    StageInvestigations,
				Title:  "Investigations",
				Kind:   clinicalcase.KindSingleChoice,
				Prompt: "Best next investigation to complement ECG and guide pathway?",
				Points: 20,
				Options: []clinicalcase.Option{
					{ID: "A", Text: "Serial troponin at appropriate intervals", Correct: true, ReviewTag: "ACS_TROPONIN_SERIAL"},
					{ID: "B", Text: "D-dimer first line"},
					{ID: "C", Text: "CT brain"},
					{ID: "D", Text: "ESR and bone profile only"},
				},
				Hints: []string{
					"Nudge: Which biomarker rises with myocardial injury but may be normal very early?",
					"Clue: Use it serially within pathway-based risk stratification.",
				},
				IfCorrect: clinicalcase.Outcome{
					Note:        "You order serial troponins per pathway.",
					VitalsDelta: clinicalcase.VitalsDelta{HR: -4, RR: -1},
				},
				IfWrong: clinicalcase.Outcome{
					Note:        "Work-up is less targeted; progression continues.",
					VitalsDelta: clinicalcase.VitalsDelta{HR: 6, RR: 1},
				},
			},
			{
				Key:    StageManagement,
				Title:  "Immediate Management Bundle",
				Kind:   clinicalcase.KindChecklist,
				Prompt: "Select everything you would do now:",
				Points: 20,
				Checklist: []clinicalcase.ChecklistItem{
					{Text: "Aspirin 300 mg (chewed)", Required: true},
					{Text: "Continuous cardiac monitoring", Required: true},
					{Text: "IV access and bloods", Required: true},
					{Text: "Supplemental oxygen only if SpO2 < 94%"},
					{Text: "Analgesia titrated to effect"},
					{Text: "Immediate thrombolysis before ECG confirmation", Contra: true, Severity: clinicalcase.SeverityHeavy},
					{Text: "Routine high-flow oxygen regardless of saturation", Contra: true, Severity: clinicalcase.SeverityModerate},
				},
				ReviewTag: "ACS_MANAGEMENT_BUNDLE",
			},
			{
				Key:    StageNBS,
				Title:  "Next Best Step",
				Kind:   clinicalcase.KindSingleChoice,
				Prompt: "Next best step now?",
				Points: 30,
				Options: []clinicalcase.Option{
					{ID: "A", Text: "Start oral antibiotics"},
					{ID: "B", Text: "Aspirin + pathway-based ACS risk stratification", Correct: true, ReviewTag: "ACS_ANTIPLATELET_PATHWAY"},
					{ID: "C", Text: "Immediate discharge with GP follow-up", Dangerous: true},
					{ID: "D", Text: "MRI heart urgently for everyone"},
				},
				Hints: []string{
					"Nudge: Treat the dangerous possibility first while refining risk.",
					"Clue: Antiplatelet + pathway-based risk tools are paired.",
				},
				IfCorrect: clinicalcase.Outcome{
					Note:        "Given antiplatelet; monitored on telemetry.",
					VitalsDelta: clinicalcase.VitalsDelta{HR: -6, RR: -1},
				},
				IfWrong: clinicalcase.Outcome{
					Note:        "Management delayed; risk increases.",
					VitalsDelta: clinicalcase.VitalsDelta{HR: 8, RR: 2},
				},
			},
			{
				Key:    StageHandover,
				Title:  "Registrar Handover",
				Kind:   clinicalcase.KindFreeText,
				Prompt: "Write a brief handover to the registrar. Cover structure, findings, and your plan.",
				KeywordGroups: []clinicalcase.KeywordGroup{
					{"isbar", "sbar", "situation"},
					{"ecg", "electrocardiogram", "st depression"},
					{"troponin", "biomarker"},
					{"aspirin", "antiplatelet"},
					{"monitoring", "telemetry"},
					{"escalate", "escalation", "registrar review", "call if"},
				},
			},
		},

		Rationale: "ECG first (within 10 minutes) for suspected ACS; complement with serial troponins and pathway-based risk stratification. Start antiplatelet when indicated. Do not delay ECG for labs or imaging.",
		Takeaways: []string{
			"Red-flag chest pain: ECG within 10 minutes.",
			"Use serial troponin and ACS pathways; treat as ACS until ruled out.",
			"Prioritise time-critical actions before downstream imaging.",
			"Document decisions and escalation thresholds explicitly (AUS context).",
		},
		Reference: "Aligned with AU ED/ACS pathways (e.g. ECG within 10 min; pathway-based assessment).",
	}
}
