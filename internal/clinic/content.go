package clinic

// Selection tokens. Tokens arrive as opaque callback data from the transport;
// the grammar here is the single source of truth for both sides.
const (
	TokenBook          = "book"
	TokenAsk           = "ask"
	TokenEditDiet      = "edit_diet"
	TokenAnalysis      = "explain_analysis"
	TokenMedicalDiet   = "medical_diet"
	TokenDailyFollowup = "daily_followup"
	TokenContact       = "contact"
	TokenShowMenu      = "show_menu"
	TokenShowWelcome   = "show_welcome"
	TokenFAQ           = "faq"
	TokenBackMenu      = "back_menu"

	TokenAdminBookings = "admin_bookings"
	TokenAdminMessages = "admin_messages"
	TokenAdminUsers    = "admin_users"

	tokenDayPrefix  = "day_"
	tokenTimePrefix = "time_"
	tokenFAQPrefix  = "faq_"
)

// BookingDays and BookingSlots are display labels only. They must never
// contain underscores: the day_<D> and time_<D>_<T> tokens split on them.
var (
	BookingDays  = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}
	BookingSlots = []string{"1 PM", "3 PM", "5 PM"}
)

const welcomeText = `Welcome to the B Healthy clinic inquiry bot 🌿

We are here to listen and follow up with you — every big change starts with one small step of awareness.

🔸 This bot answers nutrition and treatment questions about your case, including:

– questions about your personal diet plan

– how your symptoms are developing

– any guidance you need within your treatment plan

❗️ If you have new symptoms or a new condition, please see the doctor directly — diagnosis is never done over messages.

📌 The bot is not a substitute for a clinic visit, but it is here to support you and keep you company along the way.

🕒 You can reach us any time, 24/7. Leave your question and the dietitian will reply within 24–48 hours.

🫶 Your body deserves support, and you deserve to be free of pain.

Let us be part of your recovery, step by step.`

const mainMenuText = "🤔 What would you like to do today?\n\nPick one of the options below:"

const contactText = "📞 Reach us on WhatsApp: 07727292075"

const (
	namePromptText         = "🧾 Please send your full name:"
	phonePromptText        = "📞 Please send your phone number:"
	bookingDaysText        = "📅 Pick a day that suits you:"
	bookingConfirmedFormat = "✅ Your appointment is booked for %s at %s\nThank you 💚"
	bookingSlotsFormat     = "⏰ Pick a time on %s:"
)

var categoryPrompts = map[Category]string{
	CategoryInquiry: "📝 Write your question and we will reply within 24 hours.",
	CategoryDietEdit: `🔄 Diet plan edit

Tell us which problems or symptoms you are having, or which foods are not working for you.

That way we can make the right adjustment.`,
	CategoryAnalysis:      "🔬 Send a photo or the details of the test result you want explained, and we will explain it for you.",
	CategoryMedicalDiet:   "🏥 Send the details of the medical condition and the diet program you need:",
	CategoryDailyFollowup: "📆 Send the details of your condition and the goal of the daily follow-up:",
}

var categoryAcks = map[Category]string{
	CategoryInquiry:       "🙏 Your inquiry was received, we will reply as soon as possible.",
	CategoryDietEdit:      "✅ Your diet edit request was received. We will review it and send the updated plan.",
	CategoryAnalysis:      "✅ Your test result was received. We will explain it and send the interpretation.",
	CategoryMedicalDiet:   "✅ Your medical diet request was received. We will prepare the program and send it over.",
	CategoryDailyFollowup: "✅ Your daily follow-up request was received. We will arrange a schedule with the dietitian.",
}

// Headlines for the second, category-specific operator notification.
var categoryNotices = map[Category]string{
	CategoryInquiry:       "📝 New inquiry",
	CategoryDietEdit:      "🔄 Diet edit request",
	CategoryAnalysis:      "🔬 Test explanation request",
	CategoryMedicalDiet:   "🏥 Medical diet request",
	CategoryDailyFollowup: "📆 Daily follow-up request",
}

// CategoryNames are the human-readable labels used by the operator console.
var CategoryNames = map[Category]string{
	CategoryGeneral:       "General",
	CategoryInquiry:       "Inquiry",
	CategoryDietEdit:      "Diet edit",
	CategoryAnalysis:      "Analysis",
	CategoryMedicalDiet:   "Medical diet",
	CategoryDailyFollowup: "Daily follow-up",
}

const faqMenuText = "❓ Frequently asked questions\n\nPick the question you want answered:"

const faqNotFoundText = "Sorry, that question does not exist."

var faqTopics = []Option{
	{Label: "🔸 Symptoms increasing after antibacterial/antifungal treatment", Token: "faq_1"},
	{Label: "🔸 Symptoms increasing after probiotics", Token: "faq_2"},
	{Label: "🔸 Weekly follow-up at the clinic", Token: "faq_3"},
	{Label: "🔸 Treatment review", Token: "faq_4"},
}

var faqAnswers = map[string]string{
	"1": `🔸 Symptoms increasing after antibacterial/antifungal treatment

A/ When you start an antibacterial or antifungal treatment, a temporary rise in symptoms is normal.

Bacteria and fungi are tiny enclosed organisms that carry proteins and toxins inside them.

When treatment begins these organisms die and break apart, releasing their contents into the body — this is the "die-off reaction".

It can cause fatigue, bloating or a mild return of earlier symptoms, but it is a positive sign that the body is responding.

Symptoms usually settle within 3 days to a week at most.

To ease the discomfort, support the body with natural antioxidants such as:

• turmeric tea with lemon 🍋
• or green tea ☕

They help the body clear the toxins faster.

And keep nourishing yourself with the foods in your plan (bone broth, vegetable soup, red and white meat, healthy fats).`,
	"2": `🔸 Symptoms increasing after probiotics

A/ What you are feeling is completely normal — it may even be a sign the body is changing for the better, tiring as it seems at first.

When you start probiotics the gut enters an adjustment phase: beneficial bacteria start to overtake the harmful ones, and the die-off of harmful bacteria releases temporary toxins.

That can cause:

• bloating
• gas
• changes in bowel habits
• sudden general fatigue

This "probiotic adjustment reaction" is temporary and shows your body is responding.

🥄 To help yourself through it:

• take it easy on yourself
• drink warm fluids such as mint, ginger or green tea
• keep taking the probiotic at a regular dose

These symptoms usually ease within 3 to 7 days.

🛑 If the cramps are severe or the fatigue is too much, it is fine to pause the probiotic for a week and resume afterwards.

Rest is part of the plan.

🫶 You are not alone on this road — we are with you, step by step.`,
	"3": `🔸 Weekly follow-up at the clinic

We are proud of the effort you put into your health 🌿

Yes, the weekly in-clinic review matters: follow-up is a core part of the treatment plan.

Each visit we track how the body responds to the diet, assess progress, adjust doses or food choices as the case develops, and solve any problem that appears.

📍 If weekly attendance is hard — travel, distance or personal circumstances — we ask for regular follow-up over Telegram plus a monthly in-clinic review.

The monthly review is essential: the doctor and the dietitian use it to update the diet or treatment plan as needed.

📌 Your review date is written clearly inside your diet program; please keep to it and contact us to confirm the booking.`,
	"4": `🔸 Treatment review

A/ Thank you for sending photos of your treatments — we will review them shortly and get back to you.

If we are slow to reply, do not hesitate to call or message the clinic on WhatsApp: 07727292075 🌱

Take care 💕🪴`,
}

// mainMenuOptions mirrors the original menu: seven numbered request types,
// the FAQ list and a way back to the welcome screen.
func mainMenuOptions() []Option {
	return []Option{
		{Label: "1️⃣ New inquiry", Token: TokenAsk},
		{Label: "2️⃣ Edit my diet plan", Token: TokenEditDiet},
		{Label: "3️⃣ Explain a test result", Token: TokenAnalysis},
		{Label: "4️⃣ Book a review appointment", Token: TokenBook},
		{Label: "5️⃣ Diet program for a medical condition", Token: TokenMedicalDiet},
		{Label: "6️⃣ Daily follow-up with the dietitian", Token: TokenDailyFollowup},
		{Label: "7️⃣ Contact the dietitian directly", Token: TokenContact},
		{Label: "❓ Frequently asked questions", Token: TokenFAQ},
		{Label: "🏠 Home", Token: TokenShowWelcome},
	}
}

func welcomeOptions() []Option {
	return []Option{{Label: "➡️ Start", Token: TokenShowMenu}}
}

func faqMenuOptions() []Option {
	opts := make([]Option, 0, len(faqTopics)+1)
	opts = append(opts, faqTopics...)
	opts = append(opts, Option{Label: "🔙 Back", Token: TokenBackMenu})
	return opts
}

func bookingDayOptions() []Option {
	opts := make([]Option, 0, len(BookingDays)+1)
	for _, d := range BookingDays {
		opts = append(opts, Option{Label: d, Token: tokenDayPrefix + d})
	}
	opts = append(opts, Option{Label: "🔙 Back", Token: TokenBackMenu})
	return opts
}

func bookingSlotOptions(day string) []Option {
	opts := make([]Option, 0, len(BookingSlots)+1)
	for _, t := range BookingSlots {
		opts = append(opts, Option{Label: t, Token: tokenTimePrefix + day + "_" + t})
	}
	opts = append(opts, Option{Label: "🔙 Back", Token: TokenBook})
	return opts
}
