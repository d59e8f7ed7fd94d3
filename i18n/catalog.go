package i18n

// catalog maps language to message code to text. Every code needs both languages.
var catalog = map[string]map[string]string{
	LangEN: {
		"app_name":               "Store Admin",
		"dashboard":              "Dashboard",
		"catalog":                "Catalog",
		"marketing":              "Marketing",
		"sales":                  "Sales",
		"settings":               "Settings",
		"audit":                  "Audit log",
		"logout":                 "Log out",
		"switch_lang":            "العربية",
		"switch_theme":           "Theme",
		"login":                  "Sign in",
		"user_name":              "User name",
		"password":               "Password",
		"sign_in":                "Sign in",
		"invalid_credentials":    "Invalid user name or password",
		"backend_unreachable":    "The server cannot be reached, try again later",
		"categories":             "Categories",
		"companies":              "Companies",
		"units":                  "Units",
		"tags":                   "Tags",
		"notices":                "Notices",
		"flavours":               "Flavours",
		"products":               "Products",
		"wholesale_products":     "Wholesale products",
		"offers":                 "Offers",
		"spotlights":             "Spotlights",
		"coupons":                "Coupons",
		"orders":                 "Orders",
		"customers":              "Customers",
		"complaints":             "Complaints",
		"delivery_fees":          "Delivery fees",
		"pending_orders":         "Pending orders",
		"open_complaints":        "Open complaints",
		"order":                  "Order",
		"customer":               "Customer",
		"complaint":              "Complaint",
		"category":               "Category",
		"company":                "Company",
		"product":                "Product",
		"unit":                   "Unit",
		"offer":                  "Offer",
		"spotlight":              "Spotlight",
		"flavour":                "Flavour",
		"offer_items":            "Offer items",
		"items":                  "Items",
		"spotlight_items":        "Spotlight items",
		"id":                     "ID",
		"name":                   "Name",
		"name_en":                "Name (English)",
		"name_ar":                "Name (Arabic)",
		"note_en":                "Note (English)",
		"note_ar":                "Note (Arabic)",
		"title":                  "Title",
		"message":                "Message",
		"subject":                "Subject",
		"note":                   "Note",
		"arrange":                "Order",
		"active":                 "Active",
		"image":                  "Image",
		"logo":                   "Logo",
		"banners":                "Banners",
		"phone":                  "Phone",
		"whatsapp":               "WhatsApp",
		"email":                  "Email",
		"address":                "Address",
		"status":                 "Status",
		"created_at":             "Created",
		"created_ok":             "Created successfully",
		"code":                   "Code",
		"price":                  "Price",
		"quantity":               "Quantity",
		"total":                  "Total",
		"sub_total":              "Subtotal",
		"delivery_fee":           "Delivery fee",
		"discount":               "Discount",
		"coupon":                 "Coupon",
		"fee":                    "Fee",
		"minimum_order":          "Minimum order",
		"order_number":           "Order number",
		"blocked":                "Blocked",
		"big_unit":               "Big unit",
		"small_unit":             "Small unit",
		"basic_price":            "Basic price",
		"special_price":          "Special price",
		"small_units_per_big":    "Small units per big unit",
		"unit_price":             "Unit price",
		"minimum_quantity":       "Minimum quantity",
		"sell_by_custom_value":   "Sell by custom value",
		"custom_value":           "Custom value",
		"has_max_amount_per_user": "Limit per customer",
		"max_amount_per_user":    "Maximum per customer",
		"from_date":              "From",
		"to_date":                "To",
		"discount_percent":       "Discount %",
		"max_discount":           "Maximum discount",
		"usage_limit":            "Usage limit",
		"usage_limit_help":       "Leave empty for unlimited use",
		"gift":                   "Gift",
		"store_name_en":          "Store name (English)",
		"store_name_ar":          "Store name (Arabic)",
		"store_open":             "Store is open",
		"closed_message_en":      "Closed message (English)",
		"closed_message_ar":      "Closed message (Arabic)",
		"app_version":            "App version",
		"force_update":           "Force update",
		"product_image":          "Product image",
		"company_logo":           "Company logo",
		"flavour_image":          "Flavour image",
		"spotlight_banners":      "Spotlight banners",
		"new":                    "New",
		"edit":                   "Edit",
		"delete":                 "Delete",
		"save":                   "Save",
		"cancel":                 "Cancel",
		"back":                   "Back",
		"search":                 "Search",
		"apply":                  "Apply",
		"all":                    "All",
		"choose":                 "Choose…",
		"yes":                    "Yes",
		"no":                     "No",
		"actions":                "Actions",
		"export":                 "Export",
		"upload":                 "Upload",
		"no_items":               "Nothing to show",
		"no_image":               "No image yet",
		"showing":                "Showing %d of %d",
		"prev":                   "Previous",
		"next":                   "Next",
		"page_size":              "Per page",
		"unsaved_changes":        "You have unsaved changes. Leave anyway?",
		"leave":                  "Leave",
		"stay":                   "Stay",
		"discard":                "Discard",
		"confirm_delete":         "Delete this item?",
		"delete_warning":         "This cannot be undone.",
		"delete_category_warning": "Products in this category will lose it.",
		"delete_company_warning": "Products and categories of this company are affected.",
		"delete_offer_warning":   "All items of this offer are removed too.",
		"delete_product_warning": "The product disappears from offers and spotlights.",
		"delete_unit_warning":    "Products using this unit are affected.",
		"existing_items":         "Current items",
		"new_lines":              "New lines",
		"add_line":               "Add line",
		"remove":                 "Remove",
		"save_lines":             "Save lines",
		"pick_product":           "Search a product",
		"no_lines":               "Nothing to add",
		"batch_report":           "%d of %d items added",
		"select_product_first":   "Select a product first",
		"select_unit_first":      "Select a unit first",
		"line_incomplete":        "Complete or remove the unfinished line",
		"change_status":          "Change status",
		"status_changed":         "Status changed",
		"block":                  "Block",
		"unblock":                "Unblock",
		"customer_blocked":       "Customer blocked",
		"customer_unblocked":     "Customer unblocked",
		"reply":                  "Reply",
		"replied":                "Replied",
		"send_reply":             "Send reply",
		"mark_resolved":          "Mark as resolved",
		"reply_sent":             "Reply sent",
		"choose_image":           "Choose an image",
		"choose_images":          "Choose images",
		"max_upload":             "Up to %d MB",
		"uploaded":               "Upload complete",
		"upload_missing":         "Choose a file to upload",
		"upload_single":          "Only one file is allowed",
		"upload_not_image":       "Only images can be uploaded",
		"upload_too_large":       "The file is too large",
		"when":                   "When",
		"who":                    "Who",
		"resource":               "Resource",
		"action":                 "Action",
		"outcome":                "Outcome",
		"updated":                "Saved",
		"deleted":                "Deleted",
		"delete_in_progress":     "Delete already in progress",
		"delete_expired":         "The delete confirmation expired, try again",
		"load_failed":            "Could not load the data",
		"request_failed":         "The request failed",
		"not_found":              "Not found",
		"required":               "Required",
		"invalid_number":         "Enter a valid number",
		"invalid_date":           "Enter a valid date",
		"invalid_range":          "The end must not be before the start",
		"invalid_choice":         "Choose a valid option",
		"must_be_positive":       "Must be greater than zero",
		"must_not_be_negative":   "Must not be negative",
		"out_of_range":           "Out of range",
		"too_long":               "Too long",
		"invalid_phone":          "Enter a valid phone number",
	},
	LangAR: {
		"app_name":               "إدارة المتجر",
		"dashboard":              "لوحة التحكم",
		"catalog":                "الكتالوج",
		"marketing":              "التسويق",
		"sales":                  "المبيعات",
		"settings":               "الإعدادات",
		"audit":                  "سجل التدقيق",
		"logout":                 "تسجيل الخروج",
		"switch_lang":            "English",
		"switch_theme":           "المظهر",
		"login":                  "تسجيل الدخول",
		"user_name":              "اسم المستخدم",
		"password":               "كلمة المرور",
		"sign_in":                "دخول",
		"invalid_credentials":    "اسم المستخدم أو كلمة المرور غير صحيحة",
		"backend_unreachable":    "تعذر الوصول إلى الخادم، حاول لاحقاً",
		"categories":             "الأقسام",
		"companies":              "الشركات",
		"units":                  "الوحدات",
		"tags":                   "الوسوم",
		"notices":                "الإشعارات",
		"flavours":               "النكهات",
		"products":               "المنتجات",
		"wholesale_products":     "منتجات الجملة",
		"offers":                 "العروض",
		"spotlights":             "الواجهات",
		"coupons":                "القسائم",
		"orders":                 "الطلبات",
		"customers":              "العملاء",
		"complaints":             "الشكاوى",
		"delivery_fees":          "رسوم التوصيل",
		"pending_orders":         "طلبات قيد الانتظار",
		"open_complaints":        "شكاوى مفتوحة",
		"order":                  "الطلب",
		"customer":               "العميل",
		"complaint":              "الشكوى",
		"category":               "القسم",
		"company":                "الشركة",
		"product":                "المنتج",
		"unit":                   "الوحدة",
		"offer":                  "العرض",
		"spotlight":              "الواجهة",
		"flavour":                "النكهة",
		"offer_items":            "منتجات العرض",
		"items":                  "العناصر",
		"spotlight_items":        "منتجات الواجهة",
		"id":                     "الرقم",
		"name":                   "الاسم",
		"name_en":                "الاسم (إنجليزي)",
		"name_ar":                "الاسم (عربي)",
		"note_en":                "ملاحظة (إنجليزي)",
		"note_ar":                "ملاحظة (عربي)",
		"title":                  "العنوان",
		"message":                "الرسالة",
		"subject":                "الموضوع",
		"note":                   "ملاحظة",
		"arrange":                "الترتيب",
		"active":                 "نشط",
		"image":                  "الصورة",
		"logo":                   "الشعار",
		"banners":                "اللافتات",
		"phone":                  "الهاتف",
		"whatsapp":               "واتساب",
		"email":                  "البريد الإلكتروني",
		"address":                "العنوان",
		"status":                 "الحالة",
		"created_at":             "تاريخ الإنشاء",
		"created_ok":             "تمت الإضافة بنجاح",
		"code":                   "الرمز",
		"price":                  "السعر",
		"quantity":               "الكمية",
		"total":                  "الإجمالي",
		"sub_total":              "المجموع الفرعي",
		"delivery_fee":           "رسوم التوصيل",
		"discount":               "الخصم",
		"coupon":                 "القسيمة",
		"fee":                    "الرسوم",
		"minimum_order":          "الحد الأدنى للطلب",
		"order_number":           "رقم الطلب",
		"blocked":                "محظور",
		"big_unit":               "الوحدة الكبيرة",
		"small_unit":             "الوحدة الصغيرة",
		"basic_price":            "السعر الأساسي",
		"special_price":          "السعر الخاص",
		"small_units_per_big":    "عدد الوحدات الصغيرة في الكبيرة",
		"unit_price":             "سعر الوحدة",
		"minimum_quantity":       "الحد الأدنى للكمية",
		"sell_by_custom_value":   "البيع بقيمة مخصصة",
		"custom_value":           "القيمة المخصصة",
		"has_max_amount_per_user": "تحديد كمية لكل عميل",
		"max_amount_per_user":    "الحد الأقصى لكل عميل",
		"from_date":              "من",
		"to_date":                "إلى",
		"discount_percent":       "نسبة الخصم %",
		"max_discount":           "الحد الأقصى للخصم",
		"usage_limit":            "حد الاستخدام",
		"usage_limit_help":       "اتركه فارغاً للاستخدام غير المحدود",
		"gift":                   "هدية",
		"store_name_en":          "اسم المتجر (إنجليزي)",
		"store_name_ar":          "اسم المتجر (عربي)",
		"store_open":             "المتجر مفتوح",
		"closed_message_en":      "رسالة الإغلاق (إنجليزي)",
		"closed_message_ar":      "رسالة الإغلاق (عربي)",
		"app_version":            "إصدار التطبيق",
		"force_update":           "فرض التحديث",
		"product_image":          "صورة المنتج",
		"company_logo":           "شعار الشركة",
		"flavour_image":          "صورة النكهة",
		"spotlight_banners":      "لافتات الواجهة",
		"new":                    "جديد",
		"edit":                   "تعديل",
		"delete":                 "حذف",
		"save":                   "حفظ",
		"cancel":                 "إلغاء",
		"back":                   "رجوع",
		"search":                 "بحث",
		"apply":                  "تطبيق",
		"all":                    "الكل",
		"choose":                 "اختر…",
		"yes":                    "نعم",
		"no":                     "لا",
		"actions":                "إجراءات",
		"export":                 "تصدير",
		"upload":                 "رفع",
		"no_items":               "لا توجد بيانات",
		"no_image":               "لا توجد صورة",
		"showing":                "عرض %d من %d",
		"prev":                   "السابق",
		"next":                   "التالي",
		"page_size":              "لكل صفحة",
		"unsaved_changes":        "لديك تغييرات غير محفوظة. هل تريد المغادرة؟",
		"leave":                  "مغادرة",
		"stay":                   "بقاء",
		"discard":                "تجاهل",
		"confirm_delete":         "حذف هذا العنصر؟",
		"delete_warning":         "لا يمكن التراجع عن هذا الإجراء.",
		"delete_category_warning": "ستفقد المنتجات في هذا القسم تصنيفها.",
		"delete_company_warning": "ستتأثر منتجات وأقسام هذه الشركة.",
		"delete_offer_warning":   "ستحذف جميع منتجات هذا العرض أيضاً.",
		"delete_product_warning": "سيختفي المنتج من العروض والواجهات.",
		"delete_unit_warning":    "ستتأثر المنتجات التي تستخدم هذه الوحدة.",
		"existing_items":         "المنتجات الحالية",
		"new_lines":              "سطور جديدة",
		"add_line":               "إضافة سطر",
		"remove":                 "إزالة",
		"save_lines":             "حفظ السطور",
		"pick_product":           "ابحث عن منتج",
		"no_lines":               "لا يوجد ما يضاف",
		"batch_report":           "تمت إضافة %d من %d",
		"select_product_first":   "اختر منتجاً أولاً",
		"select_unit_first":      "اختر وحدة أولاً",
		"line_incomplete":        "أكمل السطر غير المكتمل أو احذفه",
		"change_status":          "تغيير الحالة",
		"status_changed":         "تم تغيير الحالة",
		"block":                  "حظر",
		"unblock":                "إلغاء الحظر",
		"customer_blocked":       "تم حظر العميل",
		"customer_unblocked":     "تم إلغاء حظر العميل",
		"reply":                  "الرد",
		"replied":                "تاريخ الرد",
		"send_reply":             "إرسال الرد",
		"mark_resolved":          "تعليم كمحلولة",
		"reply_sent":             "تم إرسال الرد",
		"choose_image":           "اختر صورة",
		"choose_images":          "اختر الصور",
		"max_upload":             "حتى %d ميغابايت",
		"uploaded":               "تم الرفع",
		"upload_missing":         "اختر ملفاً للرفع",
		"upload_single":          "يسمح بملف واحد فقط",
		"upload_not_image":       "يمكن رفع الصور فقط",
		"upload_too_large":       "الملف كبير جداً",
		"when":                   "الوقت",
		"who":                    "المستخدم",
		"resource":               "المورد",
		"action":                 "الإجراء",
		"outcome":                "النتيجة",
		"updated":                "تم الحفظ",
		"deleted":                "تم الحذف",
		"delete_in_progress":     "الحذف قيد التنفيذ",
		"delete_expired":         "انتهت صلاحية تأكيد الحذف، حاول مجدداً",
		"load_failed":            "تعذر تحميل البيانات",
		"request_failed":         "فشل الطلب",
		"not_found":              "غير موجود",
		"required":               "مطلوب",
		"invalid_number":         "أدخل رقماً صحيحاً",
		"invalid_date":           "أدخل تاريخاً صحيحاً",
		"invalid_range":          "يجب ألا تسبق النهاية البداية",
		"invalid_choice":         "اختر خياراً صحيحاً",
		"must_be_positive":       "يجب أن يكون أكبر من صفر",
		"must_not_be_negative":   "يجب ألا يكون سالباً",
		"out_of_range":           "خارج النطاق",
		"too_long":               "طويل جداً",
		"invalid_phone":          "أدخل رقم هاتف صحيح",
	},
}
