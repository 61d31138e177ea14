package catalog

import (
	"sync"

	"github.com/a3tai/mcp-intake-report/internal/answers"
)

var yesNo = []Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

func text(q, key string) Question {
	return Question{Text: q, Key: key, Kind: FreeText}
}

func number(q, key string, f Format) Question {
	return Question{Text: q, Key: key, Kind: Numeric, Format: f}
}

func single(q, key string, opts []Option, fu *FollowUp) Question {
	return Question{Text: q, Key: key, Kind: SingleChoice, Options: opts, FollowUp: fu}
}

func multi(q, key string, opts []Option, fu *FollowUp) Question {
	return Question{Text: q, Key: key, Kind: MultiChoice, Options: opts, FollowUp: fu}
}

func composite(q string, fields ...Field) Question {
	return Question{Text: q, Kind: Composite, Fields: fields}
}

func table(q string, spec TableSpec) Question {
	return Question{Text: q, Kind: Table, Table: &spec}
}

func followUp(t Trigger, qs ...Question) *FollowUp {
	return &FollowUp{Trigger: t, Questions: qs}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the technology liability application catalog. The
// returned value is shared and must not be modified.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = &Catalog{
			Sections:     coreSections(),
			Supplements:  supplementSections(),
			SectorField:  answers.FieldRef{Section: "operations", Key: "selected_sectors"},
			CompanyField: answers.FieldRef{Section: "applicant", Key: "company_name"},
			Currency:     "$",
			Percent:      "%",
		}
	})
	return defaultCatalog
}

func coreSections() []SectionSpec {
	return []SectionSpec{
		{
			Number: 1, Title: "Applicant Information", Key: "applicant",
			Questions: []Question{
				text("Legal name of the applicant", "company_name"),
				text("Trade names or DBAs", "trade_names"),
				composite("Head office address",
					Field{Label: "Street", Key: "address_street"},
					Field{Label: "City", Key: "address_city"},
					Field{Label: "Province / State", Key: "address_province"},
					Field{Label: "Postal code", Key: "address_postal_code"},
				),
				text("Website", "website"),
				number("Year founded", "year_founded", Plain),
				single("Type of legal entity", "entity_type", []Option{
					{Value: "corporation", Label: "Corporation"},
					{Value: "partnership", Label: "Partnership"},
					{Value: "sole_proprietorship", Label: "Sole proprietorship"},
					{Value: "other", Label: "Other"},
				}, followUp(When("other"),
					text("Describe the entity type", "entity_type_other"),
				)),
				composite("Primary contact",
					Field{Label: "Name", Key: "contact_name"},
					Field{Label: "Title", Key: "contact_title"},
					Field{Label: "Email", Key: "contact_email"},
					Field{Label: "Phone", Key: "contact_phone"},
				),
			},
		},
		{
			Number: 2, Title: "Business Operations", Key: "operations",
			Questions: []Question{
				text("Describe the applicant's business operations", "business_description"),
				multi("Which sectors does the applicant operate in?", "selected_sectors", []Option{
					{Value: SectorAI, Label: "Artificial intelligence / machine learning"},
					{Value: SectorDeFi, Label: "Decentralized finance / digital assets"},
					{Value: SectorRobotics, Label: "Robotics / autonomous systems"},
					{Value: "saas", Label: "Software as a service"},
					{Value: "consulting", Label: "IT consulting"},
				}, nil),
				number("Years in business under current ownership", "years_in_business", Plain),
				single("Does the applicant have subsidiaries?", "has_subsidiaries", yesNo,
					followUp(When("yes"),
						text("List each subsidiary and its operations", "subsidiaries_details"),
					)),
			},
		},
		{
			Number: 3, Title: "Revenue and Financials", Key: "financials",
			Questions: []Question{
				composite("Gross revenue",
					Field{Label: "Prior fiscal year", Key: "revenue_prior_year", Format: Currency},
					Field{Label: "Current fiscal year", Key: "revenue_current_year", Format: Currency},
					Field{Label: "Next fiscal year (projected)", Key: "revenue_next_year", Format: Currency},
				),
				table("Revenue split by geography", TableSpec{
					KeyPrefix: "revenue_geo",
					RowHeader: "Region",
					Categories: []Option{
						{Value: "canada", Label: "Canada"},
						{Value: "united_states", Label: "United States"},
						{Value: "europe", Label: "Europe"},
						{Value: "other", Label: "Rest of world"},
					},
					Columns: []Column{
						{Header: "Share of revenue", Key: "percent", Number: true, Format: Percent},
					},
				}),
				number("Largest single contract value", "largest_contract_value", Currency),
				single("Was the applicant profitable in the prior fiscal year?", "profitable", yesNo, nil),
			},
		},
		{
			Number: 4, Title: "Clients and Contracts", Key: "clients",
			Questions: []Question{
				table("Top three clients", TableSpec{
					KeyPrefix: "top_client",
					Slots:     3,
					Columns: []Column{
						{Header: "Client", Key: "name", Width: 2},
						{Header: "Industry", Key: "industry", Width: 1.5},
						{Header: "Annual revenue", Key: "revenue", Number: true, Format: Currency},
						{Header: "Years", Key: "years", Number: true},
					},
				}),
				single("How often are written contracts used?", "written_contracts", []Option{
					{Value: "always", Label: "Always"},
					{Value: "mostly", Label: "Mostly"},
					{Value: "sometimes", Label: "Sometimes"},
					{Value: "never", Label: "Never"},
				}, nil),
				single("Do contracts include a limitation of liability clause?", "limitation_of_liability", yesNo,
					followUp(When("no"),
						text("Explain how liability is allocated", "liability_explanation"),
					)),
				single("Do contracts disclaim consequential damages?", "consequential_disclaimer", yesNo, nil),
			},
		},
		{
			Number: 5, Title: "Employees", Key: "employees",
			Questions: []Question{
				number("Total number of employees", "total_employees", Plain),
				composite("Workforce breakdown",
					Field{Label: "Full time", Key: "employees_full_time"},
					Field{Label: "Part time", Key: "employees_part_time"},
					Field{Label: "Independent contractors", Key: "employees_contractors"},
				),
				single("Are any employees located outside Canada?", "employees_outside_canada", yesNo,
					followUp(When("yes"),
						text("List the countries and headcount in each", "employees_outside_canada_details"),
					)),
				single("Are background checks performed on new hires?", "background_checks", yesNo, nil),
			},
		},
		{
			Number: 6, Title: "Products and Services", Key: "products",
			Questions: []Question{
				table("Top three projects in the last 12 months", TableSpec{
					KeyPrefix: "top_project",
					Slots:     3,
					Columns: []Column{
						{Header: "Project", Key: "name", Width: 2},
						{Header: "Client", Key: "client", Width: 1.5},
						{Header: "Value", Key: "value", Number: true, Format: Currency},
						{Header: "Months", Key: "months", Number: true},
					},
				}),
				multi("Which services does the applicant provide?", "services", []Option{
					{Value: "custom_development", Label: "Custom software development"},
					{Value: "integration", Label: "Systems integration"},
					{Value: "hosting", Label: "Hosting or managed infrastructure"},
					{Value: "support", Label: "Maintenance and support"},
					{Value: "training", Label: "Training"},
				}, nil),
				single("Do products incorporate third-party components?", "third_party_components", yesNo,
					followUp(When("yes"),
						text("Describe the components and the contractual protections in place", "third_party_details"),
					)),
			},
		},
		{
			Number: 7, Title: "Data and Privacy", Key: "privacy",
			Questions: []Question{
				single("Does the applicant store or process personal information?", "stores_personal_data", yesNo,
					followUp(When("yes"),
						number("Approximate number of unique records", "records_count", Plain),
						multi("Which categories of data are held?", "data_types", []Option{
							{Value: "health", Label: "Health information"},
							{Value: "financial", Label: "Payment or financial information"},
							{Value: "biometric", Label: "Biometric data"},
							{Value: "children", Label: "Data about minors"},
							{Value: "government_id", Label: "Government identifiers"},
						}, nil),
					)),
				single("Is a published privacy policy in place?", "privacy_policy", yesNo, nil),
				single("Is personal data transferred across borders?", "cross_border_transfers", yesNo, nil),
			},
		},
		{
			Number: 8, Title: "Information Security", Key: "security",
			Questions: []Question{
				multi("Which controls are in place?", "controls", []Option{
					{Value: "mfa", Label: "Multi-factor authentication"},
					{Value: "encryption_at_rest", Label: "Encryption at rest"},
					{Value: "encryption_in_transit", Label: "Encryption in transit"},
					{Value: "edr", Label: "Endpoint detection and response"},
					{Value: "backups", Label: "Offline backups"},
					{Value: "pen_testing", Label: "Annual penetration testing"},
					{Value: "training", Label: "Security awareness training"},
				}, nil),
				single("How often are backups taken?", "backup_frequency", []Option{
					{Value: "daily", Label: "Daily"},
					{Value: "weekly", Label: "Weekly"},
					{Value: "monthly", Label: "Monthly"},
					{Value: "none", Label: "No regular backups"},
				}, nil),
				single("Is there a documented incident response plan?", "incident_response_plan", yesNo, nil),
				text("Who is responsible for information security?", "security_officer"),
			},
		},
		{
			Number: 9, Title: "Intellectual Property", Key: "ip",
			Questions: []Question{
				single("Does the applicant hold registered patents or trademarks?", "ip_registered", yesNo,
					followUp(When("yes"),
						text("List the registrations", "ip_details"),
					)),
				single("Is there an open source usage policy?", "open_source_policy", yesNo, nil),
				single("Has the applicant been involved in an IP dispute?", "ip_disputes", yesNo,
					followUp(When("yes"),
						text("Describe the dispute and its outcome", "ip_dispute_details"),
					)),
			},
		},
		{
			Number: 10, Title: "Risk Management", Key: "risk",
			Questions: []Question{
				table("Risk area assessment", TableSpec{
					KeyPrefix: "risk",
					RowHeader: "Risk area",
					Categories: []Option{
						{Value: "delivery", Label: "Project delivery"},
						{Value: "security", Label: "Security"},
						{Value: "regulatory", Label: "Regulatory"},
						{Value: "ip", Label: "Intellectual property"},
						{Value: "financial", Label: "Financial"},
					},
					Columns: []Column{
						{Header: "Likelihood", Key: "likelihood"},
						{Header: "Mitigation", Key: "mitigation", Width: 2.5},
					},
				}),
				text("Describe the quality assurance process", "qa_process"),
				single("Are subcontractors used?", "subcontractors", yesNo,
					followUp(When("yes"),
						single("Are subcontractors required to carry their own insurance?", "subcontractor_insurance", yesNo, nil),
					)),
			},
		},
		{
			Number: 11, Title: "Prior Insurance", Key: "insurance",
			Questions: []Question{
				table("Current and prior policies", TableSpec{
					KeyPrefix: "policy",
					Slots:     3,
					Columns: []Column{
						{Header: "Insurer", Key: "insurer", Width: 1.5},
						{Header: "Coverage", Key: "type", Width: 1.5},
						{Header: "Limit", Key: "limit", Number: true, Format: Currency},
						{Header: "Premium", Key: "premium", Number: true, Format: Currency},
					},
				}),
				single("Has coverage ever been declined or cancelled?", "declined_coverage", yesNo,
					followUp(When("yes"),
						text("Provide details", "declined_details"),
					)),
			},
		},
		{
			Number: 12, Title: "Claims and Incidents", Key: "claims",
			Questions: []Question{
				multi("Has the applicant experienced any of the following in the last five years?", "prior_incidents", []Option{
					{Value: "breach", Label: "Data breach"},
					{Value: "ransomware", Label: "Ransomware or extortion"},
					{Value: "lawsuit", Label: "Lawsuit from a client"},
					{Value: "regulatory", Label: "Regulatory investigation"},
					{Value: "outage", Label: "Outage lasting more than 24 hours"},
				}, followUp(WhenAny(),
					text("Describe each incident", "incident_details"),
					number("Total loss incurred", "incident_total_loss", Currency),
				)),
				single("Are any claims currently pending?", "pending_claims", yesNo,
					followUp(When("yes"),
						text("Describe the pending claims", "pending_claims_details"),
					)),
			},
		},
		{
			Number: 13, Title: "Declarations", Key: "declarations",
			Questions: []Question{
				composite("Signatory",
					Field{Label: "Name", Key: "signatory_name"},
					Field{Label: "Title", Key: "signatory_title"},
					Field{Label: "Date", Key: "signature_date"},
				),
				single("I confirm the statements in this application are true and complete", "accuracy_confirmed", []Option{
					{Value: "confirmed", Label: "Confirmed"},
				}, nil),
				single("May the broker contact the applicant about this application?", "consent_to_contact", yesNo, nil),
			},
		},
	}
}

func supplementSections() []SectionSpec {
	return []SectionSpec{
		{
			Number: 14, Title: "Artificial Intelligence Supplement", Key: "ai", Sector: SectorAI,
			Questions: []Question{
				text("Describe the AI use cases offered to clients", "ai_use_cases"),
				single("Where do the models come from?", "model_source", []Option{
					{Value: "in_house", Label: "Developed in house"},
					{Value: "third_party", Label: "Third-party models"},
					{Value: "both", Label: "Both"},
				}, nil),
				multi("Which training data sources are used?", "training_data_sources", []Option{
					{Value: "proprietary", Label: "Proprietary data"},
					{Value: "licensed", Label: "Licensed datasets"},
					{Value: "public", Label: "Public web data"},
					{Value: "customer", Label: "Customer data"},
				}, nil),
				single("Is there human review of model outputs?", "human_oversight", yesNo, nil),
				single("Are models tested for bias?", "bias_testing", yesNo,
					followUp(When("yes"),
						text("Describe the testing methodology", "bias_testing_details"),
					)),
			},
		},
		{
			Number: 15, Title: "Decentralized Finance Supplement", Key: "defi", Sector: SectorDeFi,
			Questions: []Question{
				number("Digital assets under custody", "assets_under_custody", Currency),
				single("Are smart contracts audited before deployment?", "smart_contract_audits", yesNo,
					followUp(When("yes"),
						text("Name the audit firm", "audit_firm"),
					)),
				table("Protocols operated", TableSpec{
					KeyPrefix: "protocol",
					Slots:     3,
					Columns: []Column{
						{Header: "Protocol", Key: "name", Width: 2},
						{Header: "Chain", Key: "chain"},
						{Header: "Total value locked", Key: "tvl", Number: true, Format: Currency, Width: 1.5},
					},
				}),
				single("Regulatory registration status", "regulatory_registration", []Option{
					{Value: "registered", Label: "Registered"},
					{Value: "pending", Label: "Application pending"},
					{Value: "not_required", Label: "Not required"},
				}, nil),
			},
		},
		{
			Number: 16, Title: "Robotics Supplement", Key: "robotics", Sector: SectorRobotics,
			Questions: []Question{
				multi("Which kinds of robotic systems are produced or operated?", "robot_types", []Option{
					{Value: "industrial", Label: "Industrial automation"},
					{Value: "medical", Label: "Medical or surgical"},
					{Value: "autonomous_vehicle", Label: "Autonomous vehicles"},
					{Value: "drone", Label: "Drones"},
					{Value: "consumer", Label: "Consumer robotics"},
				}, nil),
				text("Describe the deployment environments", "deployment_environment"),
				number("Units currently deployed", "units_deployed", Plain),
				single("Do the systems hold safety certifications?", "safety_certifications", yesNo,
					followUp(When("yes"),
						text("List the certifications", "certification_details"),
					)),
			},
		},
	}
}
