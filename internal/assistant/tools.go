package assistant

type ToolDefinition struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolDefinitions is the full platform tool catalog offered to the model on
// every completion call. The catalog is fixed at startup; NewRegistry checks
// that every entry has a handler.
var ToolDefinitions = []ToolDefinition{
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "query_leaks",
			Description: "استعلام عن التسريبات. يدعم: بحث بالخطورة، الحالة، المصدر، بحث نصي حر. يجيب على: هل فيه تسريب اليوم؟ أعطني التسريبات الحرجة. ابحث عن تسريبات تخص بنك الراجحي.",
			Parameters: toolParams(map[string]any{
				"severity": enumParam("فلتر الخطورة", "critical", "high", "medium", "low", "all"),
				"status":   enumParam("فلتر الحالة", "new", "analyzing", "documented", "reported", "all"),
				"source":   enumParam("فلتر المصدر", "telegram", "darkweb", "paste", "all"),
				"search": map[string]any{
					"type":        "string",
					"description": "بحث نصي حر في العناوين",
				},
				"limit": map[string]any{
					"type":        "number",
					"description": "عدد النتائج (افتراضي 20)",
				},
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_leak_details",
			Description: "تفاصيل تسريب محدد بكل المعلومات + الأدلة + التوثيقات.",
			Parameters: toolParams(map[string]any{
				"leak_id": map[string]any{
					"type":        "string",
					"description": "معرّف التسريب (مثل LK-2026-0001)",
				},
			}, []string{"leak_id"}),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_dashboard_stats",
			Description: "إحصائيات لوحة القيادة الشاملة: إجمالي التسريبات، الحرجة، السجلات، أجهزة الرصد، PII.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_channels_info",
			Description: "معلومات القنوات المراقبة: قائمة، حالة، منصة، آخر نشاط.",
			Parameters: toolParams(map[string]any{
				"platform": enumParam("فلتر المنصة", "telegram", "darkweb", "paste", "all"),
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_monitoring_status",
			Description: "حالة مهام الرصد: الجدولة، آخر تشغيل، الحالة.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_alert_info",
			Description: "معلومات التنبيهات: سجل التنبيهات، القواعد، جهات الاتصال.",
			Parameters: toolParams(map[string]any{
				"info_type": enumParam("نوع المعلومات", "history", "rules", "contacts", "all"),
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_sellers_info",
			Description: "البائعون المرصودون: ملفات تعريف، مستوى خطر، نشاط، تفاصيل بائع محدد.",
			Parameters: toolParams(map[string]any{
				"seller_id": map[string]any{
					"type":        "string",
					"description": "معرّف بائع محدد (اختياري)",
				},
				"risk_level": enumParam("فلتر مستوى الخطر", "critical", "high", "medium", "low", "all"),
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_evidence_info",
			Description: "الأدلة الرقمية: سلسلة الأدلة، إحصائيات، أدلة تسريب محدد.",
			Parameters: toolParams(map[string]any{
				"leak_id": map[string]any{
					"type":        "string",
					"description": "معرّف التسريب (اختياري)",
				},
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_threat_rules_info",
			Description: "قواعد صيد التهديدات: القواعد النشطة، الأنماط، التطابقات.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_darkweb_pastes",
			Description: "بيانات الدارك ويب ومواقع اللصق: القوائم، التفاصيل.",
			Parameters: toolParams(map[string]any{
				"source_type": enumParam("نوع المصدر", "darkweb", "paste", "both"),
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_feedback_accuracy",
			Description: "مقاييس دقة النظام: ملاحظات المحللين، نسبة الدقة، الإيجابيات الكاذبة.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_knowledge_graph",
			Description: "رسم المعرفة: العقد، الروابط، شبكة العلاقات بين التهديدات.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_osint_info",
			Description: "استعلامات OSINT: البحث المفتوح المصدر، النتائج.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_reports_info",
			Description: "التقارير: القائمة، المجدولة، سجل التدقيق، التوثيقات.",
			Parameters: toolParams(map[string]any{
				"report_type": enumParam("نوع التقارير", "all", "scheduled", "audit", "documents"),
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_threat_map",
			Description: "خريطة التهديدات الجغرافية: التوزيع حسب المناطق والقطاعات.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_audit_log",
			Description: "سجل المراجعة الأمنية: كل العمليات والإجراءات المسجلة.",
			Parameters: toolParams(map[string]any{
				"category": map[string]any{
					"type":        "string",
					"description": "فلتر الفئة (auth, leak, export, pii, user, report, system, monitoring)",
				},
				"limit": map[string]any{
					"type":        "number",
					"description": "عدد السجلات",
				},
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_system_health",
			Description: "صحة المنصة: حالة النظام، سياسات الاحتفاظ، مفاتيح API.",
			Parameters:  toolParams(map[string]any{}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "analyze_trends",
			Description: "تحليل اتجاهات التسريبات: مقارنات زمنية، أنماط، توزيعات حسب القطاع والخطورة والمصدر.",
			Parameters: toolParams(map[string]any{
				"analysis_type": enumParam("نوع التحليل",
					"severity_distribution", "source_distribution", "sector_distribution",
					"time_trend", "pii_types", "comprehensive"),
			}, nil),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_platform_guide",
			Description: "دليل استرشادي لأي مهمة أو مفهوم في المنصة. يشرح طريقة العمل، الإجراءات، أفضل الممارسات.",
			Parameters: toolParams(map[string]any{
				"topic": map[string]any{
					"type":        "string",
					"description": "الموضوع: severity_levels, pdpl_compliance, evidence_chain, pii_types, monitoring, reporting, user_roles, best_practices, troubleshooting, أو أي موضوع آخر",
				},
			}, []string{"topic"}),
		},
	},
}

func toolParams(properties map[string]any, required []string) map[string]any {
	params := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return params
}

func enumParam(description string, values ...string) map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        values,
		"description": description,
	}
}

// enumValues returns the declared closed set for a tool parameter, or nil
// when the parameter is free-form.
func enumValues(toolName, param string) []string {
	for _, def := range ToolDefinitions {
		if def.Function.Name != toolName {
			continue
		}
		props, _ := def.Function.Parameters["properties"].(map[string]any)
		prop, _ := props[param].(map[string]any)
		values, _ := prop["enum"].([]string)
		return values
	}
	return nil
}
