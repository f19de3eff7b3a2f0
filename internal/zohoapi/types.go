package zohoapi

// Employee is a People employee record.
type Employee struct {
	EmployeeID     string `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Designation    string `json:"designation"`
	JoiningDate    string `json:"joiningDate"`
	EmployeeStatus string `json:"employeeStatus"`
	Location       string `json:"location,omitempty"`
	ReportingTo    string `json:"reportingTo,omitempty"`
}

// Payslip is one payroll period for an employee.
type Payslip struct {
	EmployeeID  string     `json:"employeeId"`
	BasicSalary float64    `json:"basicSalary"`
	GrossSalary float64    `json:"grossSalary"`
	NetSalary   float64    `json:"netSalary"`
	Deductions  Deductions `json:"deductions"`
	Allowances  Allowances `json:"allowances"`
	PayPeriod   string     `json:"payPeriod"`
	PayDate     string     `json:"payDate"`
}

type Deductions struct {
	PF  float64 `json:"pf"`
	ESI float64 `json:"esi"`
	Tax float64 `json:"tax"`
	PT  float64 `json:"pt"`
}

type Allowances struct {
	HRA       float64 `json:"hra"`
	Transport float64 `json:"transport"`
	Medical   float64 `json:"medical"`
	Other     float64 `json:"other"`
}

// AttendanceEntry is a raw attendance record. The vendor shape varies by account setup.
type AttendanceEntry map[string]interface{}

type Project struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Budget   float64 `json:"budget"`
	Progress float64 `json:"progress"`
	Owner    string  `json:"owner,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// TimeLog is one timesheet entry.
type TimeLog struct {
	ID     string  `json:"id"`
	TaskID string  `json:"taskId,omitempty"`
	Owner  string  `json:"owner"`
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Notes  string  `json:"notes,omitempty"`
}

// Deal is a CRM deal.
type Deal struct {
	ID          string  `json:"id"`
	DealName    string  `json:"dealName"`
	Stage       string  `json:"stage"`
	Amount      float64 `json:"amount"`
	Probability float64 `json:"probability"`
	ClosingDate string  `json:"closingDate,omitempty"`
	AccountName string  `json:"accountName,omitempty"`
}

// Contact is a CRM contact.
type Contact struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	AccountName string `json:"accountName,omitempty"`
}
