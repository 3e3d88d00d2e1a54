package importer

import (
	"strings"

	"github.com/varnamer/api/internal/model"
)

// SampleRows is the starter dictionary loaded by `dictctl seed`
func SampleRows() []Row {
	return []Row{
		// 금융
		{Korean: "계좌번호", English: "accountNumber", Type: "변수", Category: "금융", Description: "사용자의 은행 계좌 번호",
			Usage: "const accountNumber = user.accountNumber;", Tags: []string{"금융", "계좌", "식별자"}},
		{Korean: "잔액", English: "balance", Type: "변수", Category: "금융", Description: "계좌의 현재 잔액",
			Usage: "const balance = account.balance;", Tags: []string{"금융", "잔액", "금액"}},
		{Korean: "거래내역", English: "transactionHistory", Type: "변수", Category: "금융", Description: "계좌의 거래 내역 목록",
			Usage: "const transactionHistory = await getTransactionHistory(accountId);", Tags: []string{"금융", "거래", "이력"}},

		// 사용자
		{Korean: "사용자이름", English: "userName", Type: "변수", Category: "사용자", Description: "시스템 사용자의 이름",
			Usage: "const userName = user.name;", Tags: []string{"사용자", "이름", "식별자"}},
		{Korean: "비밀번호", English: "password", Type: "변수", Category: "사용자", Description: "사용자 계정의 비밀번호",
			Usage: "const hashedPassword = await bcrypt.hash(password, 10);", Tags: []string{"사용자", "보안", "인증"}},
		{Korean: "이메일주소", English: "emailAddress", Type: "변수", Category: "사용자", Description: "사용자의 이메일 주소",
			Usage: "const emailAddress = user.email;", Tags: []string{"사용자", "이메일", "연락처"}},

		// 상품
		{Korean: "상품명", English: "productName", Type: "변수", Category: "상품", Description: "판매 상품의 이름",
			Usage: "const productName = product.name;", Tags: []string{"상품", "이름", "제품"}},
		{Korean: "재고수량", English: "stockQuantity", Type: "변수", Category: "상품", Description: "상품의 현재 재고 수량",
			Usage: "if (stockQuantity > 0) { enablePurchase(); }", Tags: []string{"상품", "재고", "수량"}},
		{Korean: "판매가격", English: "sellingPrice", Type: "변수", Category: "상품", Description: "상품의 판매 가격",
			Usage: "const totalPrice = sellingPrice * quantity;", Tags: []string{"상품", "가격", "금액"}},

		// 동작
		{Korean: "계산하다", English: "calculate", Type: "함수", Category: "동작", Description: "값을 계산하는 함수",
			Usage: "function calculate(a, b) { return a + b; }", Tags: []string{"함수", "계산", "연산"}},
		{Korean: "저장하다", English: "save", Type: "함수", Category: "동작", Description: "데이터를 저장하는 함수",
			Usage: "async function save(data) { await db.insert(data); }", Tags: []string{"함수", "저장", "데이터베이스"}},
		{Korean: "가져오다", English: "fetch", Type: "함수", Category: "동작", Description: "데이터를 가져오는 함수",
			Usage: "async function fetch(id) { return await db.findById(id); }", Tags: []string{"함수", "조회", "데이터베이스"}},

		// 모델
		{Korean: "사용자", English: "User", Type: "클래스", Category: "모델", Description: "사용자 정보를 담는 클래스",
			Usage: "class User { constructor(name, email) { ... } }", Tags: []string{"클래스", "모델", "사용자"}},
		{Korean: "주문", English: "Order", Type: "클래스", Category: "모델", Description: "주문 정보를 담는 클래스",
			Usage: "class Order { constructor(userId, items) { ... } }", Tags: []string{"클래스", "모델", "주문"}},
		{Korean: "상품", English: "Product", Type: "클래스", Category: "모델", Description: "상품 정보를 담는 클래스",
			Usage: "class Product { constructor(name, price) { ... } }", Tags: []string{"클래스", "모델", "상품"}},
	}
}

type commonTerm struct {
	korean   string
	category string
	typ      string
	english  []string
}

// commonTerms are the general-purpose words the dictionary answered before
// any domain data was loaded
var commonTerms = []commonTerm{
	{"사용자", "사용자", "변수", []string{"user", "member"}},
	{"사용자명", "사용자", "변수", []string{"userName", "username", "user_name"}},
	{"사용자ID", "사용자", "변수", []string{"userId", "userID", "user_id"}},
	{"사용자정보", "사용자", "변수", []string{"userInfo", "userInformation", "user_info"}},
	{"로그인", "인증", "함수", []string{"login", "signIn", "logIn"}},
	{"로그아웃", "인증", "함수", []string{"logout", "signOut", "logOut"}},
	{"비밀번호", "인증", "변수", []string{"password", "pwd", "pass"}},
	{"목록", "데이터", "변수", []string{"list", "items", "array"}},
	{"데이터", "데이터", "변수", []string{"data", "information", "info"}},
	{"검색", "데이터", "함수", []string{"search", "find", "query"}},
	{"날짜", "시간", "변수", []string{"date", "day"}},
	{"시간", "시간", "변수", []string{"time", "hour", "timestamp"}},
	{"시작일", "시간", "변수", []string{"startDate", "beginDate", "start_date"}},
	{"종료일", "시간", "변수", []string{"endDate", "finishDate", "end_date"}},
	{"상태", "상태", "변수", []string{"status", "state", "condition"}},
	{"활성", "상태", "변수", []string{"active", "enabled", "isActive"}},
	{"비활성", "상태", "변수", []string{"inactive", "disabled", "isInactive"}},
	{"제목", "공통", "변수", []string{"title", "subject", "heading"}},
	{"내용", "공통", "변수", []string{"content", "body", "text"}},
	{"설명", "공통", "변수", []string{"description", "desc", "explanation"}},
	{"번호", "공통", "변수", []string{"number", "no", "id"}},
	{"이름", "공통", "변수", []string{"name", "title"}},
	{"전화번호", "사용자", "변수", []string{"phoneNumber", "phone", "tel"}},
	{"이메일", "사용자", "변수", []string{"email", "mail", "emailAddress"}},
	{"주소", "사용자", "변수", []string{"address", "addr", "location"}},
	{"회원", "사용자", "변수", []string{"member", "user"}},
	{"회원가입", "인증", "함수", []string{"signUp", "register", "join"}},
}

// CommonRows expands commonTerms into one row per English candidate
func CommonRows() []Row {
	var rows []Row
	for _, t := range commonTerms {
		for _, english := range t.english {
			rows = append(rows, Row{
				Korean:      t.korean,
				English:     english,
				Type:        t.typ,
				Category:    t.category,
				Description: t.korean + " 기본 용어",
				Tags:        []string{t.category, t.korean, "기본"},
			})
		}
	}
	return rows
}

// SeedRows marks the sample and common rows as hand-written entries. A
// common row whose pair already appears in the samples (ignoring English
// case) is left out.
func SeedRows() []Row {
	rows := SampleRows()
	for _, c := range CommonRows() {
		if !containsPair(rows, c) {
			rows = append(rows, c)
		}
	}
	for i := range rows {
		rows[i].Source = model.SourceManual
	}
	return rows
}

func containsPair(rows []Row, r Row) bool {
	for _, existing := range rows {
		if existing.Korean == r.Korean && strings.EqualFold(existing.English, r.English) {
			return true
		}
	}
	return false
}
