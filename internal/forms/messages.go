package forms

// User-facing notification texts.
const (
	msgFillRequired    = "يرجى ملء جميع الحقول المطلوبة"
	msgBadEmail        = "يرجى إدخال بريد إلكتروني صحيح"
	msgBadPhone        = "يرجى إدخال رقم هاتف سعودي صحيح (05xxxxxxxx)"
	msgBadNationalID   = "يرجى إدخال رقم هوية صحيح (10-15 رقم)"
	msgTooYoung        = "يجب أن يكون عمر المتطوع %d سنة على الأقل"
	msgNoInterest      = "يرجى اختيار مجال اهتمام واحد على الأقل"
	msgFileTooLarge    = "حجم الملف يتجاوز الحد المسموح (%g ميجابايت)"
	msgVolunteerSaved  = "تم تسجيل المتطوع بنجاح! سيتم التواصل معك قريباً."
	msgBlurEmail       = "بريد إلكتروني غير صحيح"
	msgBlurPhone       = "رقم هاتف غير صحيح"
	msgBlurNationalID  = "رقم هوية غير صحيح"
	msgBlurTooYoung    = "يجب أن يكون عمرك %d سنة على الأقل"
	msgSearchCriteria  = "يرجى إدخال معايير البحث على الأقل"
	msgSearching       = "جارٍ البحث عن: %s في %s"
	msgAllOpportunity  = "جميع الفرص"
	msgAllCities       = "جميع المدن"
	msgSearchFound     = "تم العثور على %s فرصة تطوع تطابق معايير البحث"
	msgQuickCriteria   = "🔍 يرجى إدخال كلمة البحث أو اختيار تصنيف"
	msgQuickSearching  = "🔎 جاري البحث عن فرص التطوع..."
	msgQuickFound      = "✅ تم العثور على %s فرص تطوع"
	msgBadHours        = "يرجى إدخال عدد ساعات صحيح"
	msgLevelComputed   = "تم حساب مستوى التطوع بنجاح"
	msgHoursMissing    = "⚠️ يرجى إدخال عدد الساعات"
	msgLevelIs         = "✅ تم حساب المستوى: %s"
	msgHoursRequired   = "⚠️ يرجى ملء الحقول المطلوبة"
	msgHoursRegistered = "✅ تم التسجيل بنجاح!"
	msgHoursSaved      = "💾 تم الحفظ بنجاح! المجموع: %s ساعة تطوعية"
	msgHoursFirst      = "📊 يرجى إدخال عدد الساعات أولاً"
	msgNoResults       = "⚠️ لا توجد نتائج لحفظها"
	msgResultsSaved    = "💾 تم حفظ النتائج بنجاح!"
	msgSaveFailed      = "تعذر حفظ البيانات، يرجى المحاولة مرة أخرى"
	msgPublished       = "تم نشر فرصة التطوع بنجاح!"
	msgPublishedFor    = "تم نشر فرصة التطوع بنجاح! المدة: %s يوم"
	msgEndBeforeStart  = "يجب أن يكون تاريخ الانتهاء بعد تاريخ البدء"
	msgDraftSaved      = "تم حفظ فرصة التطوع كمسودة بنجاح!"
	msgWelcome         = "مرحباً بك في بنك العطاء! 🌸"
)

const (
	// simulated result counts until a real opportunity catalogue exists
	searchMatches      = 15
	quickSearchMatches = 5
)
