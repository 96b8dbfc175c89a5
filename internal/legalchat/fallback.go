package legalchat

import "strings"

// FallbackConfidence is stamped on every canned answer served when the
// completion endpoint cannot be reached.
const FallbackConfidence = 0.7

type cannedAnswer struct {
	Text        string
	Suggestions []string
	Topics      []string
}

type fallbackRule struct {
	keywords []string
	en       cannedAnswer
	fa       cannedAnswer
}

// Rules are evaluated in order against the lowercased message; the first
// match wins. The final rule has no keywords and always matches.
var fallbackRules = []fallbackRule{
	{
		keywords: []string{"export", "china"},
		en: cannedAnswer{
			Text: "To export goods from China you generally need: a commercial invoice, a packing list, a bill of lading (or air waybill), an export license where the goods require one, and a certificate of origin if your buyer or a trade agreement asks for it. Chinese customs also expects a correct HS classification for every line item. Start by confirming whether your product category is subject to export controls, then prepare the document set with your freight forwarder.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"Confirm whether your goods need an export license",
				"Verify the HS classification with your forwarder",
				"Ask your buyer which certificates they require",
			},
			Topics: []string{"export regulations", "documentation requirements", "hs codes"},
		},
		fa: cannedAnswer{
			Text: "برای صادرات کالا از چین معمولاً به این مدارک نیاز دارید: فاکتور تجاری، لیست بسته‌بندی، بارنامه، مجوز صادرات در صورت نیاز کالا، و گواهی مبدأ اگر خریدار یا موافقت‌نامه تجاری آن را بخواهد. گمرک چین همچنین طبقه‌بندی صحیح HS را برای هر قلم کالا انتظار دارد. ابتدا بررسی کنید که آیا کالای شما مشمول کنترل صادرات است، سپس مدارک را با فورواردر خود آماده کنید.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"بررسی نیاز کالا به مجوز صادرات",
				"تأیید طبقه‌بندی HS با فورواردر",
				"استعلام گواهی‌های مورد نیاز از خریدار",
			},
			Topics: []string{"export regulations", "documentation requirements", "hs codes"},
		},
	},
	{
		keywords: []string{"import", "canada"},
		en: cannedAnswer{
			Text: "Importing into Canada requires an import/export business number (RM account), a commercial invoice (or Canada Customs Invoice), a bill of lading, and a completed customs declaration with the correct HS tariff classification. Depending on the goods you may also need permits from other government departments. Customs clearance typically takes one to three business days when documentation is complete; incomplete paperwork is the most common cause of delay.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"Register an import/export RM account with the CRA",
				"Check whether your goods need permits from other departments",
				"Prepare the Canada Customs Invoice before the shipment lands",
			},
			Topics: []string{"import duties", "customs clearance", "documentation requirements"},
		},
		fa: cannedAnswer{
			Text: "برای واردات به کانادا به شماره تجاری واردات/صادرات (حساب RM)، فاکتور تجاری یا فاکتور گمرکی کانادا، بارنامه و اظهارنامه گمرکی با طبقه‌بندی صحیح تعرفه HS نیاز دارید. بسته به نوع کالا ممکن است مجوز نهادهای دولتی دیگر هم لازم باشد. ترخیص گمرکی با مدارک کامل معمولاً یک تا سه روز کاری طول می‌کشد؛ ناقص بودن مدارک رایج‌ترین علت تأخیر است.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"ثبت حساب RM واردات/صادرات نزد CRA",
				"بررسی نیاز کالا به مجوز سایر نهادها",
				"آماده‌سازی فاکتور گمرکی کانادا پیش از رسیدن محموله",
			},
			Topics: []string{"import duties", "customs clearance", "documentation requirements"},
		},
	},
	{
		keywords: []string{"customs", "documentation"},
		en: cannedAnswer{
			Text: "The core customs document set for international shipments: commercial invoice, packing list, bill of lading or air waybill, certificate of origin where preferential treatment is claimed, and any product-specific permits or licenses. Every document must agree on quantities, values and the HS code; discrepancies between documents are the most frequent trigger for inspections.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"Cross-check quantities and values across all documents",
				"Keep copies of every customs filing for at least six years",
				"Confirm whether a certificate of origin saves you duty",
			},
			Topics: []string{"customs clearance", "documentation requirements"},
		},
		fa: cannedAnswer{
			Text: "مدارک اصلی گمرکی برای محموله‌های بین‌المللی: فاکتور تجاری، لیست بسته‌بندی، بارنامه، گواهی مبدأ در صورت استفاده از تعرفه ترجیحی، و مجوزهای خاص کالا. همه مدارک باید از نظر تعداد، ارزش و کد HS با هم سازگار باشند؛ مغایرت بین مدارک رایج‌ترین دلیل بازرسی است.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"تطبیق تعداد و ارزش در همه مدارک",
				"نگهداری نسخه مدارک گمرکی دست‌کم شش سال",
				"بررسی صرفه‌جویی عوارض با گواهی مبدأ",
			},
			Topics: []string{"customs clearance", "documentation requirements"},
		},
	},
	{
		keywords: []string{"tariff", "duty"},
		en: cannedAnswer{
			Text: "Tariffs and duties depend on three things: the HS classification of the goods, their customs value, and their origin. Preferential rates may apply under a trade agreement if the goods qualify and you can document origin. Anti-dumping or countervailing duties can apply on top of the regular rate for certain product/country pairs, so always check measure lists before quoting landed cost.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"Determine the HS code before estimating duty",
				"Check whether a trade agreement lowers your rate",
				"Review anti-dumping measure lists for your product",
			},
			Topics: []string{"tariff classification", "import duties", "trade agreements"},
		},
		fa: cannedAnswer{
			Text: "تعرفه و عوارض به سه عامل بستگی دارد: طبقه‌بندی HS کالا، ارزش گمرکی آن و مبدأ. اگر کالا واجد شرایط باشد و مبدأ را مستند کنید، ممکن است نرخ ترجیحی موافقت‌نامه تجاری اعمال شود. برای برخی کالاها و کشورها عوارض ضد دامپینگ نیز به نرخ عادی اضافه می‌شود، پس پیش از اعلام قیمت تمام‌شده فهرست اقدامات را بررسی کنید.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"تعیین کد HS پیش از برآورد عوارض",
				"بررسی کاهش نرخ با موافقت‌نامه تجاری",
				"مرور فهرست عوارض ضد دامپینگ برای کالا",
			},
			Topics: []string{"tariff classification", "import duties", "trade agreements"},
		},
	},
	{
		keywords: []string{"hs code", "classification"},
		en: cannedAnswer{
			Text: "HS classification starts from the product's objective characteristics: material, function and degree of processing. Work through the section and chapter notes before relying on headings alone, and record your reasoning, customs can ask for it. When classification is genuinely uncertain, an advance ruling from the customs authority gives you a binding answer before you ship.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"Classify from material and function, not product name",
				"Read the section and chapter notes first",
				"Request an advance ruling when in doubt",
			},
			Topics: []string{"hs codes", "tariff classification"},
		},
		fa: cannedAnswer{
			Text: "طبقه‌بندی HS از ویژگی‌های عینی کالا شروع می‌شود: جنس، کارکرد و میزان فرآوری. پیش از اتکا به عناوین، یادداشت‌های بخش و فصل را بررسی کنید و استدلال خود را ثبت کنید؛ گمرک ممکن است آن را بخواهد. در موارد مبهم، استعلام قبلی از گمرک پاسخ الزام‌آور به شما می‌دهد.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"طبقه‌بندی بر اساس جنس و کارکرد، نه نام کالا",
				"مطالعه یادداشت‌های بخش و فصل",
				"درخواست استعلام قبلی در موارد تردید",
			},
			Topics: []string{"hs codes", "tariff classification"},
		},
	},
	{
		keywords: []string{"restricted", "prohibited"},
		en: cannedAnswer{
			Text: "Restricted goods can cross the border only with the right permit or license; prohibited goods cannot be imported at all. Both lists are country-specific and change, so check the current regulations of the destination before contracting. Shipping restricted goods without a permit risks seizure, penalties and loss of import privileges.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"Check the destination's current restricted and prohibited lists",
				"Apply for permits before the goods ship",
				"Ask a licensed professional if your goods sit near a list boundary",
			},
			Topics: []string{"restricted goods", "export regulations"},
		},
		fa: cannedAnswer{
			Text: "کالاهای محدودشده فقط با مجوز مناسب از مرز عبور می‌کنند؛ کالاهای ممنوعه اصلاً قابل واردات نیستند. هر دو فهرست بسته به کشور متفاوت است و تغییر می‌کند، پس پیش از عقد قرارداد مقررات روز کشور مقصد را بررسی کنید. ارسال کالای محدودشده بدون مجوز خطر ضبط کالا، جریمه و از دست دادن امتیاز واردات دارد.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"بررسی فهرست‌های روز کالاهای محدود و ممنوع مقصد",
				"اخذ مجوز پیش از ارسال کالا",
				"مشورت با متخصص اگر کالا نزدیک مرز فهرست است",
			},
			Topics: []string{"restricted goods", "export regulations"},
		},
	},
	{
		// catch-all
		keywords: nil,
		en: cannedAnswer{
			Text: "I can help with international trade law questions: export and import procedures, customs documentation, tariffs and duties, HS classification, trade agreements, and restricted goods, particularly for trade between China and Canada. Ask about a specific topic and I will walk you through it.\n\nThis is general information, not legal advice; consult licensed counsel before acting on it.",
			Suggestions: []string{
				"What documents do I need to export from China?",
				"How are import duties into Canada calculated?",
				"How do I find the HS code for my product?",
			},
			Topics: []string{"export regulations", "import duties", "customs clearance"},
		},
		fa: cannedAnswer{
			Text: "می‌توانم در پرسش‌های حقوق تجارت بین‌الملل کمک کنم: رویه‌های صادرات و واردات، مدارک گمرکی، تعرفه و عوارض، طبقه‌بندی HS، موافقت‌نامه‌های تجاری و کالاهای محدودشده، به‌ویژه تجارت میان چین و کانادا. موضوع مشخصی را بپرسید تا مرحله به مرحله توضیح دهم.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست؛ پیش از اقدام با وکیل دارای مجوز مشورت کنید.",
			Suggestions: []string{
				"برای صادرات از چین چه مدارکی لازم است؟",
				"عوارض واردات به کانادا چگونه محاسبه می‌شود؟",
				"کد HS کالای خود را چطور پیدا کنم؟",
			},
			Topics: []string{"export regulations", "import duties", "customs clearance"},
		},
	},
}

// FallbackResponse picks the deterministic canned answer for a message when
// the completion endpoint is unavailable. The canned vocabulary only exists
// in English and Persian; any third language gets the English variant.
func FallbackResponse(message string, lang Language) AIResponse {
	lowered := strings.ToLower(message)
	for _, rule := range fallbackRules {
		if len(rule.keywords) == 0 || containsAny(lowered, rule.keywords) {
			answer := rule.en
			if lang == LangPersian {
				answer = rule.fa
			}
			return AIResponse{
				Text:          answer.Text,
				Suggestions:   append([]string(nil), answer.Suggestions...),
				RelatedTopics: append([]string(nil), answer.Topics...),
				Confidence:    FallbackConfidence,
			}
		}
	}
	// unreachable: the last rule always matches
	return AIResponse{Confidence: FallbackConfidence}
}

// TechnicalDifficultiesResponse is returned when a turn cannot proceed at
// all (no session could be created). Confidence 0: no fallback vocabulary
// was consulted.
func TechnicalDifficultiesResponse(lang Language) AIResponse {
	text := "We're experiencing technical difficulties right now. Please try again in a moment.\n\nThis is general information, not legal advice."
	if lang == LangPersian {
		text = "در حال حاضر با مشکل فنی روبه‌رو هستیم. لطفاً چند لحظه دیگر دوباره تلاش کنید.\n\nاین اطلاعات عمومی است و جایگزین مشاوره حقوقی نیست."
	}
	return AIResponse{Text: text, Confidence: 0}
}

func containsAny(lowered string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}
