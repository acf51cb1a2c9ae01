package constants

const (
	ViewEnquiries    = "view_enquiries"
	EditEnquiry      = "edit_enquiry"
	ArchiveEnquiry   = "archive_enquiry"
	RestoreEnquiry   = "restore_enquiry"
	DeleteEnquiry    = "delete_enquiry"
	RecordInvestment = "record_investment"
	RecordPayment    = "record_payment"
	ViewPortfolio    = "view_portfolio"
)
