package catalog

var defaultEntries = []Entry{
	{Title: "Structured Data (JSON-LD)", Name: "구조화 데이터 심기", Price: 300000, Description: "AI가 이해할 수 있는 언어로 사이트를 번역해줍니다."},
	{Title: "Meta Description", Name: "AI 매혹 메타 설명 작성", Price: 150000, Description: "클릭률을 높이는 최적의 요약문을 작성합니다."},
	{Title: "Open Graph Tags", Name: "SNS/AI 썸네일 최적화", Price: 100000, Description: "카톡/슬랙 등 공유 시 이쁘게 나오도록 수정합니다."},
	{Title: "Header Hierarchy (H1/H2)", Name: "논리적 헤더 구조 수리", Price: 200000, Description: "검색엔진이 좋아하는 글 구조로 재배치합니다."},
	{Title: "Content Volume", Name: "AI 학습용 콘텐츠 보강", Price: 400000, Description: "AI가 인용하기 좋게 본문 내용을 보강합니다."},
	{Title: "Internal Linking", Name: "지식 연결 고리 설계", Price: 250000, Description: "사이트 내 문서들을 촘촘하게 연결합니다."},
	{Title: "Image Alt Text", Name: "이미지 AI 설명 태그 배포", Price: 150000, Description: "이미지를 검색엔진에게 설명해줍니다."},
	{Title: "Mobile Friendly", Name: "모바일 뷰포트 긴급 수리", Price: 200000, Description: "모바일 화면 깨짐 현상을 해결합니다."},
	{Title: "Robots.txt", Name: "문지기(Robots) 설정", Price: 100000, Description: "검색 로봇의 출입을 올바르게 제어합니다."},
	{Title: "Sitemap.xml", Name: "사이트지도 제작 및 등록", Price: 100000, Description: "구글/네이버에 지도(Sitemap)를 제출합니다."},
}

var defaultCatalog = MustNew(defaultEntries)

// Default returns the built-in price list.
func Default() Catalog {
	return defaultCatalog
}
