package assistant

import (
	"fmt"
	"sort"
	"strings"
)

// Guide is a static how-to entry for a platform task or concept.
type Guide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var platformGuides = map[string]Guide{
	"severity_levels": {
		Title: "مستويات الخطورة",
		Content: `
مستويات الخطورة في منصة راصد:

| المستوى | الوصف | المعايير |
|---------|-------|---------|
| critical | حرج | بيانات حساسة جداً (هوية، مالية) + أكثر من 10,000 سجل |
| high | عالي | بيانات شخصية حساسة + أكثر من 1,000 سجل |
| medium | متوسط | بيانات شخصية عامة أو أقل من 1,000 سجل |
| low | منخفض | تسريب محدود أو بيانات غير حساسة |

الإجراءات المطلوبة:
- critical: إبلاغ فوري + تحقيق عاجل + تقرير خلال 24 ساعة
- high: تحقيق خلال 48 ساعة + تقرير أسبوعي
- medium: مراجعة خلال أسبوع
- low: أرشفة ومتابعة`,
	},
	"pdpl_compliance": {
		Title: "نظام حماية البيانات الشخصية PDPL",
		Content: `
نظام حماية البيانات الشخصية (PDPL) — المواد ذات الصلة:

المادة 10: حماية البيانات الشخصية — يجب اتخاذ التدابير اللازمة لحماية البيانات
المادة 14: الإفصاح عن التسريبات — يجب إبلاغ الجهة المختصة خلال 72 ساعة
المادة 19: حقوق أصحاب البيانات — حق الوصول والتصحيح والحذف
المادة 24: العقوبات — غرامات تصل إلى 5 ملايين ريال
المادة 32: الالتزامات الأمنية — تطبيق معايير أمنية مناسبة`,
	},
	"evidence_chain": {
		Title: "سلسلة حفظ الأدلة",
		Content: `
سلسلة حفظ الأدلة الرقمية في راصد:
1. الالتقاط: تسجيل الدليل فور اكتشافه (screenshot, web archive, file)
2. التجزئة: حساب SHA-256 hash للملف
3. التوقيع: HMAC-SHA256 لضمان السلامة
4. التخزين: حفظ آمن مع metadata
5. التحقق: فحص دوري لسلامة الأدلة
6. التوثيق: ربط الدليل بالتسريب والمحلل`,
	},
	"pii_types": {
		Title: "أنواع البيانات الشخصية المدعومة",
		Content: `
أنواع PII المدعومة في راصد:
- national_id: رقم الهوية الوطنية (10 أرقام تبدأ بـ 1 أو 2)
- iqama: رقم الإقامة (10 أرقام تبدأ بـ 2)
- phone: رقم هاتف سعودي (+966 أو 05)
- email: بريد إلكتروني
- iban: رقم آيبان سعودي (SA + 22 رقم)
- credit_card: بطاقة ائتمان (Luhn validation)
- passport: رقم جواز سفر
- address: عنوان وطني
- medical_record: سجل طبي
- salary: معلومات راتب
- gosi: رقم تأمينات اجتماعية
- license_plate: لوحة مركبة`,
	},
	"monitoring": {
		Title: "نظام المراقبة",
		Content: `
مصادر المراقبة في راصد:
1. تليجرام: مراقبة قنوات ومجموعات
2. الدارك ويب: بحث في منتديات ومواقع
3. مواقع اللصق: Pastebin وبدائلها
4. وسائل التواصل: HIBP + Reddit + Twitter/X

أنواع الفحص:
- فحص مجدول: يعمل تلقائياً حسب الجدول
- فحص يدوي: يُشغّل بواسطة المحلل
- فحص مباشر: رصد في الوقت الحقيقي`,
	},
	"reporting": {
		Title: "نظام التقارير",
		Content: `
أنواع التقارير في راصد:
1. تقرير تنفيذي PDF: ملخص شامل للإدارة العليا
2. تقرير NDMO Word: تقرير رسمي للمكتب الوطني
3. تقرير Excel شهري: بيانات مفصلة للتحليل
4. تقرير أدلة: توثيق أدلة تسريب محدد
5. تقرير مخصص: حسب معايير محددة
6. تقارير مجدولة: تلقائية حسب الجدول`,
	},
	"user_roles": {
		Title: "أدوار المستخدمين",
		Content: `
أدوار المستخدمين في راصد:
- executive (تنفيذي): وصول كامل + تقارير + قرارات
- manager (مدير): إدارة التسريبات + التقارير + المستخدمين
- analyst (محلل): تحليل + تصنيف + ملاحظات
- viewer (مشاهد): عرض لوحة المعلومات فقط`,
	},
	"best_practices": {
		Title: "أفضل الممارسات",
		Content: `
أفضل ممارسات إدارة التسريبات:
1. مراجعة التسريبات الحرجة فوراً
2. توثيق الأدلة قبل أي إجراء
3. تحديث الحالة بانتظام
4. إبلاغ الجهات المعنية خلال 72 ساعة
5. مراجعة دقة النظام أسبوعياً
6. تحديث قواعد الكشف شهرياً
7. نسخ احتياطي يومي`,
	},
	"troubleshooting": {
		Title: "حل المشاكل",
		Content: `
حل المشاكل الشائعة:
- فحص فاشل: تحقق من اتصال الإنترنت وصلاحيات API
- false positives كثيرة: راجع قواعد الكشف وعدّل الحدود
- بطء المنصة: تحقق من حجم قاعدة البيانات وسياسات الاحتفاظ
- قناة لا تعمل: تحقق من حالة القناة وصلاحيات الوصول
- أدلة تالفة: أعد فحص سلامة الأدلة`,
	},
}

// GetPlatformGuide resolves a guide by topic. Unknown topics fall back to a
// substring match in both directions, then to a listing of available topics.
func GetPlatformGuide(topic string) any {
	topicLower := strings.ToLower(topic)
	if guide, ok := platformGuides[topicLower]; ok {
		return guide
	}

	topics := make([]string, 0, len(platformGuides))
	for key := range platformGuides {
		topics = append(topics, key)
	}
	sort.Strings(topics)

	if topicLower != "" {
		for _, key := range topics {
			if strings.Contains(topicLower, key) || strings.Contains(key, topicLower) {
				return platformGuides[key]
			}
		}
	}
	return map[string]any{
		"title":           "دليل عام",
		"content":         fmt.Sprintf("لم أجد دليلاً محدداً للموضوع %q. المواضيع المتاحة: %s. يمكنني مساعدتك في أي سؤال آخر عن المنصة.", topic, strings.Join(topics, ", ")),
		"availableTopics": topics,
	}
}
